package infra

import (
	"context"
	"sync"
	"time"

	"cert-lookup/lookup/domain"
)

// MemoryCounter é uma implementação simples em memória do CounterStore.
// Útil para testes e desenvolvimento.
//
// Conta por processo (não compartilha entre instâncias do serviço).
type MemoryCounter struct {
	mu      sync.Mutex
	windows map[string]counterWindow
}

type counterWindow struct {
	count     int64
	expiresAt time.Time
}

var _ domain.CounterStore = (*MemoryCounter)(nil)

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{windows: make(map[string]counterWindow)}
}

func (c *MemoryCounter) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Limpeza preguiçosa: janelas fechadas somem na próxima escrita.
	for k, w := range c.windows {
		if now.After(w.expiresAt) {
			delete(c.windows, k)
		}
	}

	w := c.windows[key]
	w.count++
	w.expiresAt = now.Add(ttl)
	c.windows[key] = w
	return w.count, nil
}
