package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Server captures configuration for the wizard API process.
type Server struct {
	Addr            string        `env:"ZENITH_ADDR"              envDefault:":8080"`
	SessionTokenKey string        `env:"ZENITH_SESSION_TOKEN_KEY" envDefault:"dev-secret-key-change-in-production"`
	SessionTokenTTL time.Duration `env:"ZENITH_SESSION_TOKEN_TTL" envDefault:"2h"`
	ShutdownTimeout time.Duration `env:"ZENITH_SHUTDOWN_TIMEOUT"  envDefault:"10s"`

	Log      Log
	Registry Registry
	Price    Price
	Redis    RedisConfig
	Kafka    Kafka
	Wizard   Wizard
}

// Log selects the slog handler.
type Log struct {
	Level  string `env:"ZENITH_LOG_LEVEL"  envDefault:"info"`
	Format string `env:"ZENITH_LOG_FORMAT" envDefault:"json"`
}

// Registry configures the claim registry gateway and the oracle in front of it.
type Registry struct {
	URL              string        `env:"ZENITH_REGISTRY_URL"               envDefault:"http://localhost:8090"`
	Timeout          time.Duration `env:"ZENITH_REGISTRY_TIMEOUT"           envDefault:"5s"`
	TakenCacheTTL    time.Duration `env:"ZENITH_TAKEN_CACHE_TTL"            envDefault:"30s"`
	BreakerThreshold int           `env:"ZENITH_REGISTRY_BREAKER_THRESHOLD" envDefault:"5"`
	BreakerCooldown  time.Duration `env:"ZENITH_REGISTRY_BREAKER_COOLDOWN"  envDefault:"30s"`
	ReadRetries      uint64        `env:"ZENITH_REGISTRY_READ_RETRIES"      envDefault:"2"`
}

// Price configures the external price index used for native-unit conversion.
type Price struct {
	URL          string        `env:"ZENITH_PRICE_URL"           envDefault:"https://api.coingecko.com/api/v3"`
	Asset        string        `env:"ZENITH_PRICE_ASSET"         envDefault:"ethereum"`
	Static       float64       `env:"ZENITH_PRICE_STATIC"`
	Retries      uint64        `env:"ZENITH_PRICE_RETRIES"       envDefault:"3"`
	RetryDelay   time.Duration `env:"ZENITH_PRICE_RETRY_DELAY"   envDefault:"2s"`
	Timeout      time.Duration `env:"ZENITH_PRICE_TIMEOUT"       envDefault:"5s"`
	RatePerMin   int           `env:"ZENITH_PRICE_RATE_PER_MIN"  envDefault:"30"`
}

// RedisConfig is optional; an empty URL keeps the taken-set cache in memory.
type RedisConfig struct {
	URL          string        `env:"ZENITH_REDIS_URL"`
	PoolSize     int           `env:"ZENITH_REDIS_POOL_SIZE"      envDefault:"10"`
	MinIdleConns int           `env:"ZENITH_REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"ZENITH_REDIS_DIAL_TIMEOUT"   envDefault:"5s"`
	ReadTimeout  time.Duration `env:"ZENITH_REDIS_READ_TIMEOUT"   envDefault:"3s"`
	WriteTimeout time.Duration `env:"ZENITH_REDIS_WRITE_TIMEOUT"  envDefault:"3s"`
}

// Kafka is optional; no brokers means claim events stay in process.
type Kafka struct {
	Brokers     []string `env:"ZENITH_KAFKA_BROKERS" envSeparator:","`
	Topic       string   `env:"ZENITH_KAFKA_TOPIC"       envDefault:"zenith.claims"`
	Partitions  int32    `env:"ZENITH_KAFKA_PARTITIONS"  envDefault:"3"`
	Replication int16    `env:"ZENITH_KAFKA_REPLICATION" envDefault:"1"`
}

// Wizard holds session and selection timing.
type Wizard struct {
	FlagWindow  time.Duration `env:"ZENITH_FLAG_WINDOW"   envDefault:"4s"`
	IdleTimeout time.Duration `env:"ZENITH_SESSION_IDLE"  envDefault:"30m"`
	MaxSessions int           `env:"ZENITH_MAX_SESSIONS"  envDefault:"10000"`
}

// RegistryServer configures the reference registry gateway process.
type RegistryServer struct {
	Addr        string `env:"ZENITH_REGISTRY_ADDR" envDefault:":8090"`
	DatabaseURL string `env:"ZENITH_DATABASE_URL"`
	Log         Log
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Price.Retries > 3 {
		cfg.Price.Retries = 3
	}
	return cfg, nil
}

// RegistryFromEnv builds the reference registry config.
func RegistryFromEnv() (RegistryServer, error) {
	var cfg RegistryServer
	if err := env.Parse(&cfg); err != nil {
		return RegistryServer{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
