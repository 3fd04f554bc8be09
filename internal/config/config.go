package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config captures runtime configuration for the API service.
type Config struct {
	HTTP      HTTPConfig
	Storage   StorageConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	Orders    OrdersConfig
	Telemetry TelemetryConfig
	Service   ServiceConfig
}

type HTTPConfig struct {
	Port           int
	MetricsPath    string
	ShutdownGrace  int
	RateLimitRPS   float64 // zero disables per-client rate limiting
	RateLimitBurst int
}

type StorageConfig struct {
	Backend string
}

type DatabaseConfig struct {
	URL            string
	AutoMigrate    bool
	MigrationsPath string
}

type CacheConfig struct {
	Backend   string
	RedisAddr string
	TTL       time.Duration
}

type OrdersConfig struct {
	DailyLimit int
}

type TelemetryConfig struct {
	LogLevel      string
	OTelEndpoint  string
	EnableTracing bool
	EnableMetrics bool
	SampleRate    float64
}

type ServiceConfig struct {
	Name        string
	Version     string
	Environment string
}

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

var ErrUnknownBackend = errors.New("unknown backend")

const (
	defaultHTTPPort       = 8080
	defaultMetricsPath    = "/metrics"
	defaultShutdownGrace  = 15
	defaultRateLimitBurst = 20
	defaultMigrationsPath = "migrations"
	defaultAutoMigrate    = true
	defaultRedisAddr      = "localhost:6379"
	defaultCacheTTL       = 5 * time.Minute
	defaultDailyLimit     = 500
	defaultServiceName    = "catalog-api"
	defaultServiceVersion = "0.1.0"
	defaultEnvironment    = "development"
	defaultLogLevel       = "info"
	defaultOTelSampleRate = 1.0
)

// Load reads configuration from environment variables, applying defaults when needed.
func Load() (*Config, error) {
	httpCfg, err := loadHTTPConfig()
	if err != nil {
		return nil, fmt.Errorf("loading HTTP config: %w", err)
	}

	storageCfg, err := loadStorageConfig()
	if err != nil {
		return nil, fmt.Errorf("loading storage config: %w", err)
	}

	cacheCfg, err := loadCacheConfig()
	if err != nil {
		return nil, fmt.Errorf("loading cache config: %w", err)
	}

	ordersCfg, err := loadOrdersConfig()
	if err != nil {
		return nil, fmt.Errorf("loading orders config: %w", err)
	}

	telCfg, err := loadTelemetryConfig()
	if err != nil {
		return nil, fmt.Errorf("loading telemetry config: %w", err)
	}

	return &Config{
		HTTP:      httpCfg,
		Storage:   storageCfg,
		Database:  loadDatabaseConfig(),
		Cache:     cacheCfg,
		Orders:    ordersCfg,
		Telemetry: telCfg,
		Service:   loadServiceConfig(),
	}, nil
}

func loadHTTPConfig() (HTTPConfig, error) {
	port, err := getIntEnv("API_HTTP_PORT", defaultHTTPPort)
	if err != nil {
		return HTTPConfig{}, err
	}

	shutdownGrace, err := getIntEnv("API_SHUTDOWN_GRACE_SECONDS", defaultShutdownGrace)
	if err != nil {
		return HTTPConfig{}, err
	}

	var rps float64
	if value, ok := os.LookupEnv("API_RATE_LIMIT_RPS"); ok {
		rps, err = strconv.ParseFloat(value, 64)
		if err != nil {
			return HTTPConfig{}, fmt.Errorf("invalid API_RATE_LIMIT_RPS: %w", err)
		}
		if rps < 0 {
			return HTTPConfig{}, fmt.Errorf("invalid API_RATE_LIMIT_RPS: must not be negative, got %v", rps)
		}
	}

	burst, err := getIntEnv("API_RATE_LIMIT_BURST", defaultRateLimitBurst)
	if err != nil {
		return HTTPConfig{}, err
	}

	return HTTPConfig{
		Port:           port,
		MetricsPath:    getEnvOrDefault("API_METRICS_PATH", defaultMetricsPath),
		ShutdownGrace:  shutdownGrace,
		RateLimitRPS:   rps,
		RateLimitBurst: burst,
	}, nil
}

func loadStorageConfig() (StorageConfig, error) {
	backend := getEnvOrDefault("STORAGE_BACKEND", BackendMemory)
	if backend != BackendMemory && backend != BackendPostgres {
		return StorageConfig{}, fmt.Errorf("STORAGE_BACKEND %q: %w", backend, ErrUnknownBackend)
	}
	return StorageConfig{Backend: backend}, nil
}

func loadDatabaseConfig() DatabaseConfig {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		databaseURL = buildDatabaseURL()
	}

	return DatabaseConfig{
		URL:            databaseURL,
		AutoMigrate:    getBoolEnv("AUTO_MIGRATE", defaultAutoMigrate),
		MigrationsPath: getEnvOrDefault("MIGRATIONS_PATH", defaultMigrationsPath),
	}
}

func loadCacheConfig() (CacheConfig, error) {
	backend := getEnvOrDefault("CACHE_BACKEND", BackendMemory)
	if backend != BackendMemory && backend != BackendRedis {
		return CacheConfig{}, fmt.Errorf("CACHE_BACKEND %q: %w", backend, ErrUnknownBackend)
	}

	ttl := defaultCacheTTL
	if value, ok := os.LookupEnv("CACHE_TTL"); ok {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return CacheConfig{}, fmt.Errorf("invalid CACHE_TTL: %w", err)
		}
		ttl = parsed
	}

	return CacheConfig{
		Backend:   backend,
		RedisAddr: getEnvOrDefault("REDIS_ADDR", defaultRedisAddr),
		TTL:       ttl,
	}, nil
}

func loadOrdersConfig() (OrdersConfig, error) {
	limit, err := getIntEnv("ORDERS_DAILY_LIMIT", defaultDailyLimit)
	if err != nil {
		return OrdersConfig{}, err
	}
	if limit <= 0 {
		return OrdersConfig{}, fmt.Errorf("invalid ORDERS_DAILY_LIMIT: must be positive, got %d", limit)
	}
	return OrdersConfig{DailyLimit: limit}, nil
}

func loadTelemetryConfig() (TelemetryConfig, error) {
	sampleRate := defaultOTelSampleRate
	if value, ok := os.LookupEnv("OTEL_SAMPLE_RATE"); ok {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return TelemetryConfig{}, fmt.Errorf("invalid OTEL_SAMPLE_RATE: %w", err)
		}
		sampleRate = parsed
	}

	return TelemetryConfig{
		LogLevel:      getEnvOrDefault("LOG_LEVEL", defaultLogLevel),
		OTelEndpoint:  getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		EnableTracing: getBoolEnv("OTEL_ENABLE_TRACING", true),
		EnableMetrics: getBoolEnv("OTEL_ENABLE_METRICS", true),
		SampleRate:    sampleRate,
	}, nil
}

func loadServiceConfig() ServiceConfig {
	return ServiceConfig{
		Name:        getEnvOrDefault("API_SERVICE_NAME", defaultServiceName),
		Version:     getEnvOrDefault("SERVICE_VERSION", defaultServiceVersion),
		Environment: getEnvOrDefault("ENVIRONMENT", defaultEnvironment),
	}
}

func buildDatabaseURL() string {
	host := getEnvOrDefault("DB_HOST", "localhost")
	port := getEnvOrDefault("DB_PORT", "5432")
	user := getEnvOrDefault("DB_USER", "postgres")
	password := getEnvOrDefault("DB_PASSWORD", "postgres")
	dbName := getEnvOrDefault("DB_NAME", "catalog")
	sslMode := getEnvOrDefault("DB_SSLMODE", "disable")

	maxConns := getEnvOrDefault("DB_MAX_CONNS", "25")
	minConns := getEnvOrDefault("DB_MIN_CONNS", "5")
	maxLifetime := getEnvOrDefault("DB_MAX_CONN_LIFETIME", "5m")

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&pool_max_conns=%s&pool_min_conns=%s&pool_max_conn_lifetime=%s",
		user, password, host, port, dbName, sslMode, maxConns, minConns, maxLifetime,
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		return value == "true"
	}
	return defaultValue
}
