package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"booktrend/internal/config"
	"booktrend/internal/httpx"
	"booktrend/internal/logging"
	"booktrend/internal/platform/data4library"
	"booktrend/internal/trend"
	"booktrend/internal/user"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("cannot load configuration")
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: os.Stdout})

	if cfg.Upstream.AuthKey == "" {
		logging.Warn().Msg("UPSTREAM_AUTH_KEY is empty, the statistics API will reject every call")
	}

	var upstream data4library.Fetcher = data4library.NewClient(data4library.Config{
		BaseURL:   cfg.Upstream.BaseURL,
		AuthKey:   cfg.Upstream.AuthKey,
		UserAgent: cfg.Upstream.UserAgent,
		RPS:       cfg.Upstream.RPS,
		Timeout:   cfg.Upstream.Timeout,
	})
	var breaker *data4library.BreakerClient
	if cfg.Upstream.BreakerEnabled {
		breaker = data4library.NewBreakerClient(upstream, data4library.DefaultBreakerSettings())
		upstream = breaker
	}

	trendCfg, err := trendConfig(cfg.Trend)
	if err != nil {
		logging.Fatal().Err(err).Msg("invalid trend configuration")
	}
	trendHandler := trend.NewHTTPHandler(trend.NewService(upstream, trendCfg))

	var dbPool *pgxpool.Pool
	if cfg.Database.DSN != "" {
		dbPool = mustOpenDB(cfg.Database.DSN)
		defer dbPool.Close()
	}

	var readiness []readinessCheck
	if breaker != nil {
		readiness = append(readiness, func(context.Context) error {
			if breaker.State() == "open" {
				return errors.New("upstream circuit open")
			}
			return nil
		})
	}
	if dbPool != nil {
		readiness = append(readiness, func(ctx context.Context) error {
			if err := dbPool.Ping(ctx); err != nil {
				return errors.New("db not ready")
			}
			return nil
		})
	}
	var me http.Handler
	if dbPool != nil && cfg.Auth.JWTSecret != "" {
		userHandler := user.NewHTTPHandler(user.NewService(user.NewPostgresRepo(dbPool, cfg.Database.QueryTimeout)))
		me = httpx.AuthMiddleware(cfg.Auth.JWTSecret)(http.HandlerFunc(userHandler.GetCurrentUser))
	} else {
		logging.Info().Msg("DB_DSN or JWT_SECRET not set, /v1/me disabled")
	}

	router := newRouter(trendHandler, me, readiness...)

	rateLimiter := httpx.NewRateLimitMiddleware(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)
	rateLimiter.TrustForwardedFor(cfg.Server.TrustProxy)
	defer rateLimiter.Stop()

	handler := httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware,
		httpx.RecoveryMiddleware,
		httpx.SecurityHeadersMiddleware(cfg.Server.EnableHSTS),
		httpx.CORSMiddleware(config.SplitList(cfg.Server.CORSOrigins)),
		httpx.RequestSizeLimitMiddleware(cfg.Server.MaxBodyBytes),
		rateLimiter.Middleware,
	)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logging.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// readinessCheck reports why the process should not take traffic yet.
type readinessCheck func(ctx context.Context) error

// newRouter mounts the probe, metrics and /v1 routes. me may be nil when
// identity lookup is not configured.
func newRouter(trendHandler *trend.HTTPHandler, me http.Handler, checks ...readinessCheck) *http.ServeMux {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		for _, check := range checks {
			if err := check(ctx); err != nil {
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	router.Handle("GET /metrics", promhttp.Handler())

	trendHandler.Register(router)
	if me != nil {
		router.Handle("GET /v1/me", me)
	}
	return router
}

func trendConfig(c config.TrendConfig) (trend.Config, error) {
	loc, err := c.Location()
	if err != nil {
		return trend.Config{}, err
	}
	weekdays, err := c.Weekdays()
	if err != nil {
		return trend.Config{}, err
	}
	return trend.Config{
		Location:             loc,
		NewReleaseYearOffset: c.NewReleaseYearOffset,
		UnpublishedWeekdays:  weekdays,
		PeriodPageSize:       c.PeriodPageSize,
		NewReleasePageSize:   c.NewReleasePageSize,
		RecommendMin:         c.RecommendMin,
		FetchTimeout:         c.FetchTimeout,
	}, nil
}

func mustOpenDB(dsn string) *pgxpool.Pool {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logging.Fatal().Err(err).Msg("cannot create db pool")
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		logging.Fatal().Err(err).Str("dsn", redactDSN(dsn)).Msg("cannot ping database")
	}
	logging.Info().Msg("database connection OK")
	return pool
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
