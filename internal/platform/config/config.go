package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string

	PublicBaseURL string

	AdminAPIKey     string
	AdminJWTSecret  string
	AdminSessionTTL time.Duration

	EnableNominations bool
	EnableVoting      bool

	DispatchInterval      time.Duration
	DispatchBatchSize     int
	DispatchWorkerCount   int
	DispatchCallTimeout   time.Duration
	DispatchMaxAttempts   int
	DispatchBaseBackoff   time.Duration
	DispatchMaxBackoff    time.Duration
	DispatchClaimExpiry   time.Duration
	ValidationMaxAttempts int
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "accolade"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),

		PublicBaseURL: strings.TrimSpace(os.Getenv("PUBLIC_BASE_URL")),

		AdminAPIKey:     strings.TrimSpace(os.Getenv("ADMIN_API_KEY")),
		AdminJWTSecret:  strings.TrimSpace(os.Getenv("ADMIN_JWT_SECRET")),
		AdminSessionTTL: envDuration("ADMIN_SESSION_TTL", time.Hour),

		EnableNominations: envBool("ENABLE_NOMINATIONS", true),
		EnableVoting:      envBool("ENABLE_VOTING", true),

		DispatchInterval:      envDuration("DISPATCH_INTERVAL", 15*time.Second),
		DispatchBatchSize:     envInt("DISPATCH_BATCH_SIZE", 50),
		DispatchWorkerCount:   envInt("DISPATCH_WORKER_COUNT", 4),
		DispatchCallTimeout:   envDuration("DISPATCH_CALL_TIMEOUT", 10*time.Second),
		DispatchMaxAttempts:   envInt("DISPATCH_MAX_ATTEMPTS", 8),
		DispatchBaseBackoff:   envDuration("DISPATCH_BASE_BACKOFF", 30*time.Second),
		DispatchMaxBackoff:    envDuration("DISPATCH_MAX_BACKOFF", 30*time.Minute),
		DispatchClaimExpiry:   envDuration("DISPATCH_CLAIM_EXPIRY", 5*time.Minute),
		ValidationMaxAttempts: envInt("DISPATCH_VALIDATION_MAX_ATTEMPTS", 2),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
