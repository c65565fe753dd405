package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"cert-lookup/lookup"
	"cert-lookup/lookup/application"
	"cert-lookup/lookup/domain"
	"cert-lookup/lookup/infra"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := readConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Camada local do cache sempre existe; a remota depende do Redis.
	local := infra.NewMemoryCache(infra.WithSweepEvery(cfg.cacheSweepEvery))
	local.StartJanitor(ctx)

	var remote domain.Cache
	var counter domain.CounterStore
	if cfg.redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.redisAddr,
			Password: cfg.redisPassword,
			DB:       cfg.redisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, cancelPing := context.WithTimeout(ctx, 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		cancelPing()
		if err != nil {
			// Redis fora do ar não derruba o serviço: cache cai para a
			// camada local e o rate limit abre, como em runtime.
			log.Printf("redis ping error (continuing, fail-open): %v", err)
		}

		remote = infra.NewRedisCache(rdb)
		counter = infra.NewRedisCounter(rdb)
	}

	var limiter *application.RateLimitService
	if cfg.rateLimitEnabled && counter != nil {
		limiter = &application.RateLimitService{
			Store: counter,
			Limit: cfg.rateLimitPerMinute,
		}
	}

	upstreamOpts := []infra.UpstreamOption{
		infra.WithHTTPTimeout(cfg.upstreamTimeout),
	}
	if cfg.upstreamRPS > 0 {
		upstreamOpts = append(upstreamOpts, infra.WithPacer(cfg.upstreamRPS, cfg.upstreamBurst))
	}

	svc := &application.Service{
		Cache:     infra.NewTieredCache(remote, local),
		Limiter:   limiter,
		Coalescer: application.NewCoalescer(),
		Fetcher:   infra.NewUpstreamClient(cfg.upstreamURL, upstreamOpts...),
		CacheTTL:  cfg.cacheTTL,
	}

	mux := http.NewServeMux()
	mux.Handle("/api/certificates", lookup.Handler(lookup.Options{
		Service:            svc,
		KeyHeader:          cfg.rateKeyHeader,
		TrustXForwardedFor: cfg.trustXFF,
	}))

	srv := &http.Server{
		Addr:              cfg.listenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("certlookup listening on %s -> %s", cfg.listenAddr, cfg.upstreamURL)
	log.Printf("cache: ttl=%s sweepEvery=%s redisAddr=%q", cfg.cacheTTL, cfg.cacheSweepEvery, cfg.redisAddr)
	log.Printf("ratelimit: enabled=%v perMinute=%d keyHeader=%q trustXFF=%v", limiter != nil, cfg.rateLimitPerMinute, cfg.rateKeyHeader, cfg.trustXFF)
	log.Printf("upstream: timeout=%s rps=%.3f burst=%d", cfg.upstreamTimeout, cfg.upstreamRPS, cfg.upstreamBurst)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}

type config struct {
	listenAddr      string
	upstreamURL     string
	upstreamTimeout time.Duration
	upstreamRPS     float64
	upstreamBurst   int

	cacheTTL        time.Duration
	cacheSweepEvery time.Duration

	redisAddr     string
	redisPassword string
	redisDB       int

	rateLimitEnabled   bool
	rateLimitPerMinute int64
	rateKeyHeader      string
	trustXFF           bool
}

func readConfig() (config, error) {
	cfg := config{}
	cfg.listenAddr = getenvDefault("LISTEN_ADDR", ":8080")
	cfg.upstreamURL = getenvDefault("UPSTREAM_URL", "https://crt.sh")
	cfg.upstreamTimeout = getenvDurationDefault("UPSTREAM_TIMEOUT", 15*time.Second)
	cfg.upstreamRPS = getenvFloatDefault("UPSTREAM_RPS", 0)
	cfg.upstreamBurst = getenvIntDefault("UPSTREAM_BURST", 1)

	// CACHE_TTL aceita duração ("1h") ou segundos puros ("3600").
	cfg.cacheTTL = getenvDurationDefault("CACHE_TTL", time.Hour)
	cfg.cacheSweepEvery = getenvDurationDefault("CACHE_SWEEP_EVERY", 5*time.Minute)

	cfg.redisAddr = getenvDefault("REDIS_ADDR", "")
	cfg.redisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.redisDB = getenvIntDefault("REDIS_DB", 0)

	cfg.rateLimitEnabled = getenvBoolDefault("RATE_LIMIT_ENABLED", true)
	cfg.rateLimitPerMinute = int64(getenvIntDefault("RATE_LIMIT_PER_MINUTE", 10))
	cfg.rateKeyHeader = os.Getenv("RATE_KEY_HEADER")
	cfg.trustXFF = getenvBoolDefault("TRUST_XFF", false)

	if cfg.upstreamURL == "" {
		return config{}, errors.New("UPSTREAM_URL must not be empty")
	}
	if cfg.cacheTTL <= 0 {
		return config{}, errors.New("CACHE_TTL must be > 0")
	}
	if cfg.rateLimitPerMinute <= 0 {
		return config{}, errors.New("RATE_LIMIT_PER_MINUTE must be > 0")
	}
	if cfg.upstreamRPS < 0 {
		return config{}, errors.New("UPSTREAM_RPS must be >= 0")
	}
	return cfg, nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvFloatDefault(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getenvBoolDefault(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
