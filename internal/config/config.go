// Package config loads server configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything the server binary needs.
type Config struct {
	// HTTP
	Port           string
	AllowedOrigins []string

	// Store selection
	UseMemoryStore bool
	ProjectID      string

	// Entitlement
	TrialDays int
}

// Load reads the environment (after merging a .env file when present) and
// returns the resulting configuration.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port: getEnv("PORT", "8120"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS",
			"http://localhost:5173,http://127.0.0.1:5173")),
		UseMemoryStore: getEnv("USE_MEMORY_STORE", "") == "true" || getEnv("ENV", "") == "local",
		ProjectID:      getEnv("GOOGLE_CLOUD_PROJECT", ""),
		TrialDays:      getEnvInt("TRIAL_DAYS", 14),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
