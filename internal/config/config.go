package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Version is the application version shown on the about page. Set at build time with
// -ldflags "-X github.com/stemsi/questbank/internal/config.Version=...".
var Version = "dev"

// Store backends selectable through STORE_BACKEND.
const (
	StoreBackendXLSX     = "xlsx"
	StoreBackendPostgres = "postgres"
	StoreBackendCSVURL   = "csv_url"
)

// Config holds all application configuration.
type Config struct {
	ServerPort       string
	GinMode          string
	LogLevel         string
	LogFormat        string
	StoreBackend     string
	SpreadsheetPath  string
	SpreadsheetSheet string
	SpreadsheetURL   string
	StoreTimeout     time.Duration
	DatabaseURL      string
	MaxDBConns       int32
	QuestionTable    string
	RedisURL         string
	RedisKeyPrefix   string
	SessionTTL       time.Duration
	AppendRate       int
	MaxLogoBytes     int64
	// AllowedOrigins controls HTTP CORS. Empty slice means all origins are permitted.
	AllowedOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // .env is optional

	cfg := &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		GinMode:          getEnv("GIN_MODE", "debug"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "pretty"),
		StoreBackend:     strings.ToLower(getEnv("STORE_BACKEND", StoreBackendXLSX)),
		SpreadsheetPath:  getEnv("SPREADSHEET_PATH", "./data/questoes.xlsx"),
		SpreadsheetSheet: os.Getenv("SPREADSHEET_SHEET"),
		SpreadsheetURL:   os.Getenv("SPREADSHEET_URL"),
		StoreTimeout:     time.Duration(getEnvInt("STORE_TIMEOUT_SECONDS", 10)) * time.Second,
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		MaxDBConns:       int32(getEnvInt("MAX_DB_CONNS", 8)),
		QuestionTable:    getEnv("QUESTION_TABLE", "questions"),
		RedisURL:         os.Getenv("REDIS_URL"),
		RedisKeyPrefix:   getEnv("REDIS_KEY_PREFIX", "questbank"),
		SessionTTL:       time.Duration(getEnvInt("SESSION_TTL_HOURS", 12)) * time.Hour,
		AppendRate:       getEnvInt("APPEND_RATE_PER_MINUTE", 30),
		MaxLogoBytes:     int64(getEnvInt("MAX_LOGO_SIZE_KB", 512)) * 1024,
		AllowedOrigins:   parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
	}
	Keys = NewRedisKeys(cfg.RedisKeyPrefix)
	return cfg
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

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
