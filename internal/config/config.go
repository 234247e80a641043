package config

import (
	"os"

	"invoicely/internal/logger"
)

type Config struct {
	Port        string
	DatabaseDSN string
	Env         string

	LogLevel  string
	LogFormat string
	LogOutput string
}

// Load loads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by main) > default.
func Load() Config {
	return Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", "file:invoicely.db"),
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "console"),
		LogOutput:   getEnv("LOG_OUTPUT", "stdout"),
	}
}

// LoggerConfig maps the logging subsection onto the logger package.
func (c Config) LoggerConfig() logger.Config {
	return logger.Config{Level: c.LogLevel, Format: c.LogFormat, Output: c.LogOutput}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
