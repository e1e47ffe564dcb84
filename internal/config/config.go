// Package config loads Roundhold's server configuration from an
// optional .env file plus process environment: a best-effort
// godotenv.Load() before falling back to os.Getenv.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"roundhold/internal/balance"
)

// Config holds the server's network and tick-rate knobs. Balance tables
// themselves (tower/unit stats, routes) are not overridable here: they
// are part of the wire contract both client and server must agree on
// byte-for-byte.
type Config struct {
	Host           string
	Port           int
	WorkerPoolSize int
	TickRate       int
	LogLevel       string
}

// Default returns the server's baseline network defaults.
func Default() Config {
	return Config{
		Host:           balance.DefaultHost,
		Port:           balance.DefaultPort,
		WorkerPoolSize: balance.DefaultWorkerPool,
		TickRate:       balance.TickRate,
		LogLevel:       "info",
	}
}

// Load reads an optional .env file (missing is not an error, matching
// godotenv's own convention) and layers environment variable overrides
// on top of Default().
func Load(envFile string) Config {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		logrus.WithError(err).Debug("no .env file loaded, using process environment only")
	}

	cfg := Default()
	if v := os.Getenv("ROUNDHOLD_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("ROUNDHOLD_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Port = n
		}
	}
	if v := os.Getenv("ROUNDHOLD_WORKER_POOL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.WorkerPoolSize = n
		}
	}
	if v := os.Getenv("ROUNDHOLD_TICK_RATE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TickRate = n
		}
	}
	if v := os.Getenv("ROUNDHOLD_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return cfg
}
