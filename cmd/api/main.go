package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dejobratic/catalog/internal/config"
	"github.com/dejobratic/catalog/internal/database"
	"github.com/dejobratic/catalog/internal/orders/adapters"
	httpadapter "github.com/dejobratic/catalog/internal/orders/adapters/http"
	"github.com/dejobratic/catalog/internal/orders/adapters/memory"
	orderspostgres "github.com/dejobratic/catalog/internal/orders/adapters/postgres"
	ordersredis "github.com/dejobratic/catalog/internal/orders/adapters/redis"
	ordersapp "github.com/dejobratic/catalog/internal/orders/app"
	"github.com/dejobratic/catalog/internal/orders/app/validation"
	"github.com/dejobratic/catalog/internal/orders/metrics"
	"github.com/dejobratic/catalog/internal/orders/ports"
	"github.com/dejobratic/catalog/internal/telemetry"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

type readinessCheck func(ctx context.Context) error

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := telemetry.NewLogger(os.Stdout, telemetry.ParseLevel(cfg.Telemetry.LogLevel))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("api stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, snapshot, err := initTelemetry(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown failed", "error", err)
		}
	}()

	orderMetrics, err := metrics.NewMetrics(telemetry.Meter())
	if err != nil {
		return fmt.Errorf("create order metrics: %w", err)
	}
	httpMetrics, err := httpadapter.NewMetrics(telemetry.Meter())
	if err != nil {
		return fmt.Errorf("create http metrics: %w", err)
	}

	checks := map[string]readinessCheck{}

	repo, closeRepo, err := newRepository(ctx, cfg, logger, checks)
	if err != nil {
		return err
	}
	defer closeRepo()

	cache, closeCache, err := newCache(ctx, cfg, logger, checks)
	if err != nil {
		return err
	}
	defer closeCache()

	rules := validation.DefaultRules()
	rules.DailyLimit = cfg.Orders.DailyLimit

	service := ordersapp.NewService(ordersapp.Dependencies{
		Repository: repo,
		Cache:      cache,
		Counter:    memory.NewDailyCounter(),
		Recorder:   metrics.NewRecorder(orderMetrics, logger),
		Logger:     logger,
		Rules:      &rules,
	})

	var routerOpts []httpadapter.RouterOption
	if cfg.HTTP.RateLimitRPS > 0 {
		limiter := httpadapter.NewRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)
		go limiter.Run(ctx)
		routerOpts = append(routerOpts, httpadapter.WithLimiter(limiter))
	}

	router := httpadapter.NewRouter(httpadapter.NewHandler(service, logger), httpMetrics, logger, routerOpts...)
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				respondJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "not ready",
					"check":  name,
					"error":  err.Error(),
				})
				return
			}
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	if snapshot != nil {
		router.Method(http.MethodGet, cfg.HTTP.MetricsPath, telemetry.SnapshotHandler(snapshot))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting",
			"port", cfg.HTTP.Port,
			"storage", cfg.Storage.Backend,
			"cache", cfg.Cache.Backend,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownGrace)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("http server stopped")
	return nil
}

// initTelemetry exports over OTLP when an endpoint is configured. Without one,
// tracing stays off and metrics are kept in a reader served on the metrics path.
func initTelemetry(ctx context.Context, cfg *config.Config) (*telemetry.Telemetry, *sdkmetric.ManualReader, error) {
	telCfg := telemetry.Config{
		ServiceName:    cfg.Service.Name,
		ServiceVersion: cfg.Service.Version,
		Environment:    cfg.Service.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTelEndpoint,
		EnableTracing:  cfg.Telemetry.EnableTracing,
		EnableMetrics:  cfg.Telemetry.EnableMetrics,
		SampleRate:     cfg.Telemetry.SampleRate,
	}

	var (
		opts     []telemetry.Option
		snapshot *sdkmetric.ManualReader
	)
	if telCfg.OTLPEndpoint == "" {
		telCfg.EnableTracing = false
		if telCfg.EnableMetrics {
			snapshot = sdkmetric.NewManualReader()
			opts = append(opts, telemetry.WithMetricReader(snapshot))
		}
	}

	tel, err := telemetry.Initialize(ctx, telCfg, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize telemetry: %w", err)
	}
	return tel, snapshot, nil
}

func newRepository(ctx context.Context, cfg *config.Config, logger *slog.Logger, checks map[string]readinessCheck) (ports.OrderRepository, func(), error) {
	if cfg.Storage.Backend != config.BackendPostgres {
		return memory.NewRepository(), func() {}, nil
	}

	if cfg.Database.AutoMigrate {
		logger.Info("running database migrations", "path", cfg.Database.MigrationsPath)
		version, err := database.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsPath)
		if err != nil {
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("migrations completed", "version", version)
	}

	pool, err := database.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("create database pool: %w", err)
	}
	checks["postgres"] = func(ctx context.Context) error {
		return database.CheckHealth(ctx, pool)
	}

	dbMetrics, err := database.NewMetrics(telemetry.Meter())
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("create database metrics: %w", err)
	}

	return adapters.NewObservableRepository(orderspostgres.NewRepository(pool), dbMetrics), pool.Close, nil
}

func newCache(ctx context.Context, cfg *config.Config, logger *slog.Logger, checks map[string]readinessCheck) (ports.ProfileCache, func(), error) {
	if cfg.Cache.Backend != config.BackendRedis {
		return memory.NewProfileCache(), func() {}, nil
	}

	client, err := ordersredis.NewClient(ctx, cfg.Cache.RedisAddr)
	if err != nil {
		return nil, nil, fmt.Errorf("connect cache: %w", err)
	}
	logger.Info("using redis profile cache", "addr", cfg.Cache.RedisAddr, "ttl", cfg.Cache.TTL)

	cache := ordersredis.NewProfileCache(client, ordersredis.WithTTL(cfg.Cache.TTL))
	checks["redis"] = cache.Ping

	return cache, func() {
		if err := client.Close(); err != nil {
			logger.Warn("failed to close redis client", "error", err)
		}
	}, nil
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
