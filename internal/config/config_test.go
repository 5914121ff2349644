package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/config"
)

func useDotEnv(t *testing.T, content string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	prev := config.DotEnvFile
	config.DotEnvFile = path
	t.Cleanup(func() {
		config.DotEnvFile = prev
		// godotenv writes into the process environment
		for _, line := range strings.Split(content, "\n") {
			if key, _, ok := strings.Cut(line, "="); ok {
				os.Unsetenv(key)
			}
		}
	})
}

func TestNewDefaults(t *testing.T) {
	useDotEnv(t, "")

	type Config struct {
		App      config.App
		Log      config.Log
		HTTP     config.HTTP
		Postgres config.Postgres
		Upload   config.Upload
		Inquiry  config.Inquiry
		Admin    config.Admin
		Relay    config.Relay
		Kafka    config.Kafka
	}

	cfg, err := config.New[Config]()
	require.NoError(t, err)

	assert.False(t, cfg.App.IsProduction())
	assert.Equal(t, config.LogFormatJSON, cfg.Log.Format)
	assert.Equal(t, slog.LevelInfo, cfg.Log.Level)
	assert.Equal(t, uint32(5000), cfg.HTTP.Port)
	assert.Equal(t, []string{"*"}, cfg.HTTP.CorsOrigins)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, "uploads", cfg.Upload.Dir)
	assert.Equal(t, "/uploads", cfg.Upload.PublicPath)
	assert.Equal(t, int64(10<<20), cfg.Upload.MaxSize)
	assert.False(t, cfg.Upload.RestrictImages)
	assert.Equal(t, "1234567890", cfg.Inquiry.WhatsAppNumber)
	assert.Equal(t, "admin@curtain.com", cfg.Admin.Email)
	assert.Empty(t, cfg.Admin.PasswordHash)
	assert.Equal(t, time.Second, cfg.Relay.Interval)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Addresses)
	assert.Equal(t, 5*time.Second, cfg.Kafka.PingTimeout)
}

func TestNewReadsEnvironment(t *testing.T) {
	useDotEnv(t, "HTTP_PORT=7000\nLOG_FORMAT=text\n")
	t.Setenv("APP_ENV", "Production")
	t.Setenv("UPLOAD_RESTRICT_IMAGES", "true")
	t.Setenv("HTTP_CORS_ORIGINS", "http://localhost:5173,https://shop.example.com")

	type Config struct {
		App    config.App
		Log    config.Log
		HTTP   config.HTTP
		Upload config.Upload
	}

	cfg, err := config.New[Config]()
	require.NoError(t, err)

	assert.True(t, cfg.App.IsProduction())
	assert.Equal(t, config.LogFormatText, cfg.Log.Format)
	assert.Equal(t, uint32(7000), cfg.HTTP.Port)
	assert.Equal(t, []string{"http://localhost:5173", "https://shop.example.com"}, cfg.HTTP.CorsOrigins)
	assert.True(t, cfg.Upload.RestrictImages)
}

func TestNewMissingDotEnv(t *testing.T) {
	prev := config.DotEnvFile
	config.DotEnvFile = filepath.Join(t.TempDir(), "missing.env")
	t.Cleanup(func() { config.DotEnvFile = prev })

	type Config struct{ HTTP config.HTTP }
	_, err := config.New[Config]()
	assert.NoError(t, err)
}

func TestNewInvalidLogFormat(t *testing.T) {
	useDotEnv(t, "")
	t.Setenv("LOG_FORMAT", "yaml")

	type Config struct{ Log config.Log }
	_, err := config.New[Config]()
	assert.ErrorContains(t, err, "unknown log format")
}
