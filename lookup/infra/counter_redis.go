package infra

import (
	"context"
	"fmt"
	"time"

	"cert-lookup/lookup/domain"

	"github.com/redis/go-redis/v9"
)

// RedisCounter conta janelas de rate limit no Redis: INCR + EXPIRE no mesmo
// pipeline. O EXPIRE renova a cada chamada, então a chave some sozinha pouco
// depois da janela fechar.
type RedisCounter struct {
	rdb *redis.Client
}

var _ domain.CounterStore = (*RedisCounter)(nil)

func NewRedisCounter(rdb *redis.Client) *RedisCounter {
	return &RedisCounter{rdb: rdb}
}

func (c *RedisCounter) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	pipe := c.rdb.Pipeline()
	incr := pipe.Incr(ctx, key)
	if ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("redis incr: %w", err)
	}
	return incr.Val(), nil
}
