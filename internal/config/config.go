// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full service configuration. Empty infrastructure addresses
// select the in-process fallbacks: memory stores, no cache, no-op publisher.
type Config struct {
	ListenAddr   string        `env:"ORDERSVC_LISTEN_ADDR" envDefault:":8080"`
	PostgresDSN  string        `env:"ORDERSVC_POSTGRES_DSN"`
	RedisAddr    string        `env:"ORDERSVC_REDIS_ADDR"`
	KafkaBrokers []string      `env:"ORDERSVC_KAFKA_BROKERS"`
	KafkaTopic   string        `env:"ORDERSVC_KAFKA_TOPIC" envDefault:"order-events"`
	CacheTTL     time.Duration `env:"ORDERSVC_CACHE_TTL" envDefault:"5m"`
	LogLevel     string        `env:"ORDERSVC_LOG_LEVEL" envDefault:"info"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// SlogLevel maps the configured log level to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
