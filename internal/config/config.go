package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Parse     ParseConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// ParseConfig holds message parsing limits
type ParseConfig struct {
	// MaxMessageBytes caps the raw message size accepted by the API.
	MaxMessageBytes int64
	// SanitizeHTML enables HTML sanitization of parsed bodies by default.
	SanitizeHTML bool
}

// RateLimitConfig holds per-client rate limiting settings
type RateLimitConfig struct {
	Enabled bool
	Limit   int
	Window  time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnv("SERVER_PORT", "8080"),
			RequestTimeout:  getDurationEnv("SERVER_REQUEST_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Parse: ParseConfig{
			MaxMessageBytes: getInt64Env("PARSE_MAX_MESSAGE_BYTES", 25*1024*1024),
			SanitizeHTML:    getBoolEnv("PARSE_SANITIZE_HTML", true),
		},
		RateLimit: RateLimitConfig{
			Enabled: getBoolEnv("RATE_LIMIT_ENABLED", true),
			Limit:   getIntEnv("RATE_LIMIT_REQUESTS", 120),
			Window:  getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),
		},
	}
}

// getEnv returns environment variable value or default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv returns duration from environment variable or default
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch value {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultValue
}
