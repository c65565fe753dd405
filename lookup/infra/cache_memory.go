package infra

import (
	"context"
	"sync"
	"time"

	"cert-lookup/lookup/domain"
)

// MemoryCache é a camada de cache em processo: um mapa protegido por mutex
// com checagem preguiçosa de expiração na leitura e uma varredura periódica
// para limitar memória.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	sweepEvery time.Duration
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// Verificação de interface.
var _ domain.Cache = (*MemoryCache)(nil)

type MemoryCacheOption func(*MemoryCache)

func WithSweepEvery(d time.Duration) MemoryCacheOption {
	return func(c *MemoryCache) { c.sweepEvery = d }
}

func NewMemoryCache(opts ...MemoryCacheOption) *MemoryCache {
	c := &MemoryCache{
		entries:    make(map[string]memoryEntry),
		sweepEvery: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.entries[key]
	if !ok || ent.expired(time.Now()) {
		return nil, false, nil
	}
	return ent.value, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}

// Sweep remove as entradas já expiradas.
func (c *MemoryCache) Sweep() {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for k, ent := range c.entries {
		if ent.expired(now) {
			delete(c.entries, k)
		}
	}
}

func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// StartJanitor inicia uma goroutine que varre entradas expiradas
// periodicamente. Pare cancelando o contexto.
func (c *MemoryCache) StartJanitor(ctx DoneContext) {
	if c.sweepEvery <= 0 {
		return
	}

	t := time.NewTicker(c.sweepEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				c.Sweep()
			}
		}
	}()
}

// DoneContext é o mínimo que o janitor precisa de um context.Context.
type DoneContext interface {
	Done() <-chan struct{}
}
