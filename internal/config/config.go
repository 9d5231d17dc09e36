package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port          string
	Environment   string
	DatabaseURL   string
	CodexAPIToken string
	CORSOrigins   string
	// Rate limiting
	RateLimitWindow time.Duration
	RateLimitMax    int
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     env,
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		CodexAPIToken:   getEnv("CODEX_API_TOKEN", ""),
		CORSOrigins:     getEnv("CORS_ORIGINS", "http://localhost:3000"),
		RateLimitWindow: getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),
		RateLimitMax:    getIntEnv("RATE_LIMIT_MAX", 60),
		// Debug defaults to true outside prod
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
