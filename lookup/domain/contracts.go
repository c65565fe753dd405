package domain

import (
	"context"
	"time"
)

// Cache é a estratégia de armazenamento chave/valor com TTL.
//
// Implementações podem usar Redis, memória, etc. Quem consome deve tratar
// erro como best-effort: cache é camada de desempenho, não de correção, e um
// miss nunca derruba a consulta.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CounterStore incrementa o contador de uma janela de rate limit e devolve o
// valor após o incremento. O TTL renova a cada chamada para a chave
// auto-expirar pouco depois da janela fechar.
type CounterStore interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Fetcher busca os registros brutos de certificados para um domínio.
type Fetcher interface {
	Fetch(ctx context.Context, d Domain) ([]RawCertificateRecord, error)
}

// Decision é o resultado da checagem de rate limit.
type Decision struct {
	Allowed bool
	// RetryAfter é a recomendação de espera quando bloquear. Se 0, não há
	// recomendação.
	RetryAfter time.Duration
}
