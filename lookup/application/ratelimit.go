package application

import (
	"context"
	"log"
	"time"

	"cert-lookup/lookup/domain"
)

const (
	defaultLimitPerMinute = 10
	// A chave expira um pouco depois da janela fechar, só para auto-limpeza.
	windowKeyTTL = 65 * time.Second
	// Janela fixa de um minuto: rajadas na virada de janela passam, e está
	// tudo bem — é a troca assumida por simplicidade em vez de token bucket.
	retryAfter = 60 * time.Second
)

// RateLimitService aplica o teto de requisições por minuto por cliente,
// contando em janelas fixas de um minuto.
//
// Ele não sabe nada sobre HTTP: recebe uma chave de cliente e devolve uma
// Decision.
type RateLimitService struct {
	Store  domain.CounterStore
	Limit  int64
	Prefix string
	// Now permite injetar o relógio nos testes.
	Now func() time.Time
}

// Decide incrementa o contador da janela atual e bloqueia quando o valor
// passa do teto.
//
// Se o Store falhar, a decisão é permitir (fail-open): disponibilidade da
// consulta vale mais que limitação estrita. Sem Store configurado, o
// limitador é um no-op.
func (s *RateLimitService) Decide(ctx context.Context, clientID string) domain.Decision {
	if s == nil || s.Store == nil || clientID == "" {
		return domain.Decision{Allowed: true}
	}

	limit := s.Limit
	if limit <= 0 {
		limit = defaultLimitPerMinute
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	prefix := s.Prefix
	if prefix == "" {
		prefix = "ratelimit"
	}
	key := prefix + ":" + clientID + ":" + now().UTC().Format("200601021504")

	n, err := s.Store.Incr(ctx, key, windowKeyTTL)
	if err != nil {
		log.Printf("ratelimit: counter store error, failing open: %v", err)
		return domain.Decision{Allowed: true}
	}

	if n > limit {
		return domain.Decision{Allowed: false, RetryAfter: retryAfter}
	}
	return domain.Decision{Allowed: true}
}
