package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPerPortTimeout = 1000 * time.Millisecond
	DefaultTotalBudget    = 5000 * time.Millisecond
	DefaultMaxWorkers     = 100
	DefaultMaxPorts       = 1024
	DefaultLivenessPort   = 80
)

// Config holds the runtime defaults for the diagnostics engine. Values come
// from the environment (optionally via a .env file); anything unset falls back
// to a built-in default.
type Config struct {
	PerPortTimeout time.Duration
	TotalBudget    time.Duration
	MaxWorkers     int
	MaxPorts       int
	LivenessPort   int
}

func Load() *Config {
	// A missing .env file is fine; the environment alone is enough.
	_ = godotenv.Load()

	return &Config{
		PerPortTimeout: envDuration("SOCKETSENTRY_TIMEOUT_MS", DefaultPerPortTimeout),
		TotalBudget:    envDuration("SOCKETSENTRY_BUDGET_MS", DefaultTotalBudget),
		MaxWorkers:     envInt("SOCKETSENTRY_WORKERS", DefaultMaxWorkers),
		MaxPorts:       envInt("SOCKETSENTRY_MAX_PORTS", DefaultMaxPorts),
		LivenessPort:   envInt("SOCKETSENTRY_LIVENESS_PORT", DefaultLivenessPort),
	}
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	ms := envInt(key, int(fallback/time.Millisecond))
	return time.Duration(ms) * time.Millisecond
}
