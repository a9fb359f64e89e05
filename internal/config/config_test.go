package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"FXSERIES_BASE", "FXSERIES_OUTPUT_DIR", "FXSERIES_DB_PATH", "FXSERIES_WORKERS", "FXSERIES_PORT", "FXSERIES_LOG_LEVEL"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, Config{
		Base:      "EUR",
		OutputDir: "exchange_rates_data",
		DBPath:    ":memory:",
		Workers:   5,
		Port:      "8080",
		LogLevel:  slog.LevelInfo,
	}, cfg)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FXSERIES_BASE", "usd")
	t.Setenv("FXSERIES_DB_PATH", "rates.db")
	t.Setenv("FXSERIES_WORKERS", "2")
	t.Setenv("FXSERIES_LOG_LEVEL", "debug")

	cfg := Load()
	assert.Equal(t, "USD", cfg.Base)
	assert.Equal(t, "rates.db", cfg.DBPath)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestGetEnvInt_Invalid(t *testing.T) {
	t.Setenv("FXSERIES_WORKERS", "many")
	assert.Equal(t, 5, getEnvInt("FXSERIES_WORKERS", 5))

	t.Setenv("FXSERIES_WORKERS", "-3")
	assert.Equal(t, 5, getEnvInt("FXSERIES_WORKERS", 5))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}
