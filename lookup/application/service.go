package application

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"cert-lookup/lookup/domain"
)

const defaultCacheTTL = 3600 * time.Second

// Service orquestra a consulta de certificados:
//
//	validação → rate limit → cache → busca coalescida → processamento → cache
//
// Cache e Limiter são opcionais; Fetcher e Coalescer são obrigatórios.
type Service struct {
	Cache     domain.Cache
	Limiter   *RateLimitService
	Coalescer *Coalescer
	Fetcher   domain.Fetcher
	CacheTTL  time.Duration
}

// Lookup devolve a resposta consolidada para a entrada bruta do usuário e se
// ela veio do cache.
//
// Falhas de upstream nunca são cacheadas; falhas do cache nunca derrubam a
// consulta.
func (s *Service) Lookup(ctx context.Context, rawInput, clientID string) (*domain.LookupResponse, bool, error) {
	d, err := domain.Normalize(rawInput)
	if err != nil {
		return nil, false, err
	}

	dec := s.Limiter.Decide(ctx, clientID)
	if !dec.Allowed {
		return nil, false, &domain.RateLimitError{RetryAfter: dec.RetryAfter}
	}

	key := cacheKey(d)
	if s.Cache != nil {
		if b, ok, err := s.Cache.Get(ctx, key); err == nil && ok {
			var resp domain.LookupResponse
			if jsonErr := json.Unmarshal(b, &resp); jsonErr == nil {
				return &resp, true, nil
			}
			// Entrada corrompida: trata como miss e deixa a escrita
			// posterior sobrepor.
			log.Printf("lookup: discarding corrupt cache entry for %s", d)
		}
	}

	recs, err := s.Coalescer.Do(ctx, d, func() ([]domain.ProcessedRecord, error) {
		// Contexto desacoplado: a busca compartilhada sobrevive à desistência
		// de um chamador, porque outros podem estar esperando por ela — e o
		// cache é populado aqui dentro pelo mesmo motivo: o resultado precisa
		// ficar disponível para os próximos mesmo que todos desconectem.
		detached := context.WithoutCancel(ctx)
		raw, err := s.Fetcher.Fetch(detached, d)
		if err != nil {
			return nil, err
		}
		recs := domain.Process(raw)
		s.writeCache(detached, d, recs)
		return recs, nil
	})
	if err != nil {
		return nil, false, err
	}

	resp := &domain.LookupResponse{
		Domain:  d.String(),
		Count:   len(recs),
		Results: recs,
	}
	return resp, false, nil
}

func (s *Service) writeCache(ctx context.Context, d domain.Domain, recs []domain.ProcessedRecord) {
	if s.Cache == nil {
		return
	}

	resp := &domain.LookupResponse{
		Domain:  d.String(),
		Count:   len(recs),
		Results: recs,
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return
	}

	ttl := s.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if err := s.Cache.Set(ctx, cacheKey(d), b, ttl); err != nil {
		log.Printf("lookup: cache write failed for %s: %v", d, err)
	}
}

func cacheKey(d domain.Domain) string {
	return "certlookup:" + d.String()
}
