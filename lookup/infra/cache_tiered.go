package infra

import (
	"context"
	"log"
	"time"

	"cert-lookup/lookup/domain"
)

// TieredCache compõe a camada externa (remota, autoritativa quando presente)
// com a camada em processo.
//
// Erro da camada remota nunca sobe para o chamador: a chamada cai para a
// camada local e o erro vira log. Cache é desempenho, não correção.
type TieredCache struct {
	remote domain.Cache // opcional
	local  domain.Cache
}

var _ domain.Cache = (*TieredCache)(nil)

func NewTieredCache(remote, local domain.Cache) *TieredCache {
	return &TieredCache{remote: remote, local: local}
}

func (c *TieredCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if c.remote != nil {
		b, ok, err := c.remote.Get(ctx, key)
		if err == nil {
			return b, ok, nil
		}
		log.Printf("cache: remote get failed, falling back to local: %v", err)
	}
	return c.local.Get(ctx, key)
}

func (c *TieredCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.remote != nil {
		err := c.remote.Set(ctx, key, value, ttl)
		if err == nil {
			return nil
		}
		log.Printf("cache: remote set failed, falling back to local: %v", err)
	}
	return c.local.Set(ctx, key, value, ttl)
}

func (c *TieredCache) Delete(ctx context.Context, key string) error {
	if c.remote != nil {
		if err := c.remote.Delete(ctx, key); err != nil {
			log.Printf("cache: remote delete failed: %v", err)
		}
	}
	return c.local.Delete(ctx, key)
}
