package domain

import (
	"errors"
	"fmt"
	"time"
)

// Taxonomia de erros da consulta. Cada tipo vira um código estável na borda
// HTTP; erros de infraestrutura (cache, contador) nunca chegam aqui — são
// absorvidos com fail-open/fail-soft nas próprias implementações.

// ValidationError indica entrada inválida do cliente. Nunca é retentado.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid domain: " + e.Reason
}

// RateLimitError indica que o próprio cliente estourou o teto por minuto.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry in %s", e.RetryAfter)
}

// ErrUpstreamRateLimited indica que o upstream devolveu 429 até esgotar o
// orçamento de retentativas. É distinto do RateLimitError de propósito: o
// cliente precisa saber se o limite é dele ou do upstream.
var ErrUpstreamRateLimited = errors.New("upstream rate limited after retries")

// ErrUpstreamUnreachable indica falha de rede (sem resposta) que persistiu
// após o orçamento de retentativas.
var ErrUpstreamUnreachable = errors.New("upstream unreachable")

// UpstreamError indica resposta não-2xx (e não-429) do upstream. Terminal.
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

// UpstreamProtocolError indica 2xx com corpo fora do contrato (não é uma
// lista de registros). Terminal.
type UpstreamProtocolError struct {
	Detail string
}

func (e *UpstreamProtocolError) Error() string {
	return "upstream protocol error: " + e.Detail
}
