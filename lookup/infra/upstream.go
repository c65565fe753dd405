package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cert-lookup/lookup/domain"

	"golang.org/x/time/rate"
)

const (
	defaultUpstreamTimeout = 15 * time.Second
	defaultMaxRetries      = 2
	defaultRetryBaseDelay  = 2 * time.Second
)

// UpstreamClient busca os registros de certificate transparency no endpoint
// estilo crt.sh (GET /?q=<dominio>&output=json).
//
// Política de retentativa: 429 e falha de rede ganham até maxRetries
// retentativas com atraso exponencial (2s, 4s); qualquer outro status
// não-2xx é terminal. 429 persistente vira ErrUpstreamRateLimited.
type UpstreamClient struct {
	baseURL    string
	http       *http.Client
	pacer      *rate.Limiter // opcional: suaviza a carga agregada no upstream
	maxRetries int
	baseDelay  time.Duration

	// sleep é injetável nos testes para não esperar de verdade.
	sleep func(ctx context.Context, d time.Duration) error
}

var _ domain.Fetcher = (*UpstreamClient)(nil)

type UpstreamOption func(*UpstreamClient)

func WithHTTPTimeout(d time.Duration) UpstreamOption {
	return func(c *UpstreamClient) { c.http.Timeout = d }
}

// WithPacer limita o ritmo agregado de chamadas ao upstream (token bucket).
func WithPacer(rps float64, burst int) UpstreamOption {
	return func(c *UpstreamClient) { c.pacer = rate.NewLimiter(rate.Limit(rps), burst) }
}

func WithRetry(maxRetries int, baseDelay time.Duration) UpstreamOption {
	return func(c *UpstreamClient) {
		c.maxRetries = maxRetries
		c.baseDelay = baseDelay
	}
}

func NewUpstreamClient(baseURL string, opts ...UpstreamOption) *UpstreamClient {
	c := &UpstreamClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       &http.Client{Timeout: defaultUpstreamTimeout},
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultRetryBaseDelay,
		sleep:      sleepCtx,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch implementa domain.Fetcher.
func (c *UpstreamClient) Fetch(ctx context.Context, d domain.Domain) ([]domain.RawCertificateRecord, error) {
	u := c.baseURL + "/?q=" + url.QueryEscape(d.String()) + "&output=json"

	delay := c.baseDelay
	for attempt := 0; ; attempt++ {
		if c.pacer != nil {
			if err := c.pacer.Wait(ctx); err != nil {
				return nil, err
			}
		}

		recs, retryable, err := c.attempt(ctx, u)
		if err == nil {
			return recs, nil
		}
		if !retryable || attempt >= c.maxRetries {
			return nil, err
		}

		if err := c.sleep(ctx, delay); err != nil {
			return nil, err
		}
		delay *= 2
	}
}

// attempt faz uma única chamada HTTP e classifica a falha:
//   - erro de transporte (sem resposta): retentável
//   - 429: retentável, vira ErrUpstreamRateLimited ao esgotar o orçamento
//   - outro não-2xx: UpstreamError terminal
//   - 2xx com corpo fora do contrato: UpstreamProtocolError terminal
func (c *UpstreamClient) attempt(ctx context.Context, u string) (recs []domain.RawCertificateRecord, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// Timeout da tentativa também cai aqui e segue a mesma política.
		return nil, true, fmt.Errorf("%w: %v", domain.ErrUpstreamUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, true, domain.ErrUpstreamRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, false, &domain.UpstreamError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("%w: read body: %v", domain.ErrUpstreamUnreachable, err)
	}

	// "null" e outros JSON não-array decodificam sem erro para um slice;
	// o contrato exige uma lista de registros, então a checagem é explícita.
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false, &domain.UpstreamProtocolError{Detail: "body is not a record array"}
	}
	if err := json.Unmarshal(trimmed, &recs); err != nil {
		return nil, false, &domain.UpstreamProtocolError{Detail: "body is not a record array"}
	}
	return recs, false, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
