package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL            string
	StatePath             string
	LogLevel              string
	LogHTTPDebug          bool
	TrustPersistedSession bool
	RegisterAutoLogin     bool
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func boolenv(key string, def bool) bool {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// Load reads .env when present and falls back to process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		slog.Debug("no .env file, using system environment", "error", err)
	}

	cfg := &Config{
		APIBaseURL:            getenv("API_BASE_URL", "http://localhost:8080/api"),
		StatePath:             getenv("STATE_PATH", defaultStatePath()),
		LogLevel:              getenv("LOG_LEVEL", "info"),
		LogHTTPDebug:          boolenv("LOG_HTTP_DEBUG", false),
		TrustPersistedSession: boolenv("TRUST_PERSISTED_SESSION", false),
		RegisterAutoLogin:     boolenv("REGISTER_AUTO_LOGIN", true),
	}

	// Resolved base URL is the first thing to check when requests go nowhere.
	slog.Info("api base url resolved", "base_url", cfg.APIBaseURL)

	return cfg, nil
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "storefront.db"
	}
	return filepath.Join(dir, "storefront", "state.db")
}
