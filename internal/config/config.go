package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Base      string
	OutputDir string
	DBPath    string
	Workers   int
	Port      string
	LogLevel  slog.Level
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present; real environment variables win.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	return Config{
		Base:      strings.ToUpper(getEnv("FXSERIES_BASE", "EUR")),
		OutputDir: getEnv("FXSERIES_OUTPUT_DIR", "exchange_rates_data"),
		DBPath:    getEnv("FXSERIES_DB_PATH", ":memory:"),
		Workers:   getEnvInt("FXSERIES_WORKERS", 5),
		Port:      getEnv("FXSERIES_PORT", "8080"),
		LogLevel:  ParseLevel(getEnv("FXSERIES_LOG_LEVEL", "info")),
	}
}

// ParseLevel maps debug/info/warn/error to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
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
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
