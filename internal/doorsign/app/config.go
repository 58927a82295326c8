package app

import (
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/doorsign/pkg/jwtx"
)

type Config struct {
	SessionSecret string        // Required: HMAC secret for session tokens
	Issuer        string        // Optional: issuer claim for session tokens (default: doorsign)
	SessionTTL    time.Duration // Optional: session lifetime (default: 7 days)

	StoreBackend string // Optional: storage backend (sqlite, memory) (default: sqlite)
	DatabaseFile string // Optional: path to SQLite database file (default: ./doorsign.db)
	PepperFile   string // Optional: path to file containing pepper for password hashing (default: ./pepper)

	SyncBackEnabled bool          // Optional: pull device-side edits back into the dashboard (default: false)
	SyncInterval    time.Duration // Optional: periodic sync interval, <=0 disables the loop (default: 0)
	SyncConcurrency int           // Optional: parallel provider pulls per sync run (default: 4)
	EpaperTimeout   time.Duration // Optional: per-request timeout for provider calls (default: 5s)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		SessionSecret: os.Getenv("DOORSIGN_SESSION_SECRET"),
		Issuer:        getEnvOrDefault("DOORSIGN_ISSUER", "doorsign"),
		SessionTTL:    getEnvDurationOrDefault("DOORSIGN_SESSION_TTL", jwtx.DefaultSessionTTL),

		StoreBackend: getEnvOrDefault("DOORSIGN_STORE_BACKEND", "sqlite"),
		DatabaseFile: getEnvOrDefault("DOORSIGN_DATABASE_FILE", "doorsign.db"),
		PepperFile:   getEnvOrDefault("DOORSIGN_PEPPER_FILE", "pepper"),

		SyncBackEnabled: getEnvBoolOrDefault("DOORSIGN_SYNC_BACK_ENABLED", false),
		SyncInterval:    getEnvDurationOrDefault("DOORSIGN_SYNC_INTERVAL", 0),
		SyncConcurrency: getEnvIntOrDefault("DOORSIGN_SYNC_CONCURRENCY", 0),
		EpaperTimeout:   getEnvDurationOrDefault("DOORSIGN_EPAPER_TIMEOUT", 0),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
