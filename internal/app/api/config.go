package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/marketfront/orderflow/internal/identity"
	"github.com/marketfront/orderflow/internal/realtime"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port                  string
	SeedCount             int
	PollInterval          time.Duration
	RequestTimeout        time.Duration
	RequireVerifiedCaller bool
	StrictTransitions     bool
	SessionSecret         string
	SessionCookie         string
}

// LoadConfig reads a .env file when present, then the environment,
// applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	// A missing .env file is fine; the environment still applies.
	_ = godotenv.Load()

	cfg := Config{
		Port:                  envDefault("PORT", "8080"),
		SeedCount:             200,
		PollInterval:          realtime.DefaultPollInterval,
		RequestTimeout:        realtime.DefaultRequestTimeout,
		RequireVerifiedCaller: isTruthy(os.Getenv("REQUIRE_VERIFIED_CALLER")),
		StrictTransitions:     isTruthy(os.Getenv("ORDERS_STRICT_TRANSITIONS")),
		SessionSecret:         envDefault("SESSION_SECRET", "marketfront-demo-secret"),
		SessionCookie:         envDefault("SESSION_COOKIE", identity.DefaultCookieName),
	}
	if raw := strings.TrimSpace(os.Getenv("SEED_COUNT")); raw != "" {
		count, err := strconv.Atoi(raw)
		if err != nil || count <= 0 {
			return Config{}, fmt.Errorf("SEED_COUNT must be a positive integer")
		}
		cfg.SeedCount = count
	}
	if raw := strings.TrimSpace(os.Getenv("POLL_INTERVAL")); raw != "" {
		interval, err := time.ParseDuration(raw)
		if err != nil || interval <= 0 {
			return Config{}, fmt.Errorf("POLL_INTERVAL must be a positive duration")
		}
		cfg.PollInterval = interval
	}
	if raw := strings.TrimSpace(os.Getenv("REQUEST_TIMEOUT")); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil || timeout <= 0 {
			return Config{}, fmt.Errorf("REQUEST_TIMEOUT must be a positive duration")
		}
		cfg.RequestTimeout = timeout
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
