package lookup

import (
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"strings"

	"cert-lookup/lookup/application"
	"cert-lookup/lookup/domain"
)

type KeyFunc func(r *http.Request) string

type Options struct {
	Service            *application.Service
	KeyFn              KeyFunc
	KeyHeader          string
	TrustXForwardedFor bool
}

// errorBody é o corpo padrão de erro: mensagem legível + código estável.
type errorBody struct {
	Error      string `json:"error"`
	Code       string `json:"code"`
	RetryAfter int    `json:"retryAfter,omitempty"`
}

// DefaultKeyFunc monta a identidade do cliente usada pelo rate limit, nesta
// ordem: header configurado, primeiro IP do X-Forwarded-For (só quando o
// proxy na frente é confiável) e por último o host do RemoteAddr.
func DefaultKeyFunc(keyHeader string, trustXFF bool) KeyFunc {
	return func(r *http.Request) string {
		if keyHeader != "" {
			if v := strings.TrimSpace(r.Header.Get(keyHeader)); v != "" {
				return v
			}
		}

		if trustXFF {
			// o primeiro elemento do X-Forwarded-For é o cliente original
			first, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}

		addr := strings.TrimSpace(r.RemoteAddr)
		if host, _, err := net.SplitHostPort(addr); err == nil && host != "" {
			return host
		}
		if addr != "" {
			return addr
		}
		return "unknown"
	}
}

// Handler expõe GET com o parâmetro obrigatório "domain" e devolve a lista
// consolidada de hostnames vistos em logs de certificate transparency.
func Handler(opts Options) http.Handler {
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc(opts.KeyHeader, opts.TrustXForwardedFor)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeJSON(w, http.StatusMethodNotAllowed, errorBody{
				Error: "method not allowed", Code: "METHOD_NOT_ALLOWED",
			})
			return
		}

		raw := r.URL.Query().Get("domain")
		if raw == "" {
			writeJSON(w, http.StatusBadRequest, errorBody{
				Error: `query parameter "domain" is required`, Code: "MISSING_PARAM",
			})
			return
		}

		resp, hit, err := opts.Service.Lookup(r.Context(), raw, opts.KeyFn(r))
		if err != nil {
			writeLookupError(w, err)
			return
		}

		if hit {
			w.Header().Set("X-Cache", "HIT")
		} else {
			w.Header().Set("X-Cache", "MISS")
		}
		writeJSON(w, http.StatusOK, resp)
	})
}

// writeLookupError traduz a taxonomia de erros do domínio para status HTTP e
// códigos estáveis.
func writeLookupError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error: ve.Error(), Code: "INVALID_DOMAIN",
		})
		return
	}

	var rle *domain.RateLimitError
	if errors.As(err, &rle) {
		secs := int(rle.RetryAfter.Seconds())
		w.Header().Set("Retry-After", formatInt(secs))
		writeJSON(w, http.StatusTooManyRequests, errorBody{
			Error: "rate limit exceeded", Code: "RATE_LIMIT", RetryAfter: secs,
		})
		return
	}

	if errors.Is(err, domain.ErrUpstreamRateLimited) {
		writeJSON(w, http.StatusBadGateway, errorBody{
			Error: "upstream rate limited, try again later", Code: "UPSTREAM_RATE_LIMIT",
		})
		return
	}

	var ue *domain.UpstreamError
	var pe *domain.UpstreamProtocolError
	if errors.As(err, &ue) || errors.As(err, &pe) || errors.Is(err, domain.ErrUpstreamUnreachable) {
		writeJSON(w, http.StatusBadGateway, errorBody{
			Error: "upstream lookup failed", Code: "UPSTREAM_ERROR",
		})
		return
	}

	log.Printf("lookup: internal error: %v", err)
	writeJSON(w, http.StatusInternalServerError, errorBody{
		Error: "internal error", Code: "INTERNAL",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
