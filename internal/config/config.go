package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port         int
	DatabaseURL  string
	NatsURL      string
	LogLevel     string
	GeminiAPIKey string
	GeminiModel  string
	Username     string
	Password     string
	APIToken     string
}

func Load() Config {
	return Config{
		Port:         envInt("FITTRACK_PORT", 8600),
		DatabaseURL:  envStr("DATABASE_URL", ""),
		NatsURL:      envStr("NATS_URL", ""),
		LogLevel:     envStr("LOG_LEVEL", "info"),
		GeminiAPIKey: envStr("GEMINI_API_KEY", ""),
		GeminiModel:  envStr("GEMINI_MODEL", "gemini-1.5-flash"),
		Username:     envStr("FITTRACK_USERNAME", "admin"),
		Password:     envStr("FITTRACK_PASSWORD", ""),
		APIToken:     envStr("FITTRACK_TOKEN", ""),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
