package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestMustLoadPath(t *testing.T) {
	path := writeFile(t, "local.yaml", `
env: dev
dsn: postgres://u:p@localhost:5432/portfolio?sslmode=disable
secret_key: test-secret
session_duration: 2h
http:
  port: "8081"
file_storage:
  base_dir: /tmp/uploads
`)

	cfg := MustLoadPath(path)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "test-secret", cfg.SecretKey)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "8081", cfg.HTTP.Port)
	assert.Equal(t, "/api", cfg.HTTP.APIPrefix)
	assert.Equal(t, "/tmp/uploads", cfg.FileStorage.BaseDir)
	assert.Equal(t, "/uploads", cfg.FileStorage.BaseURL)
	assert.Equal(t, int64(16777216), cfg.FileStorage.MaxSize)
	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.Equal(t, "10-M", cfg.RateLimit.Login)
	assert.Empty(t, cfg.Redis.RedisAddr)
}

func TestMustLoadPath_MissingFile(t *testing.T) {
	assert.Panics(t, func() {
		MustLoadPath(filepath.Join(t.TempDir(), "absent.yaml"))
	})
}

func TestLoadClient(t *testing.T) {
	t.Run("from env", func(t *testing.T) {
		t.Setenv("PORTFOLIO_API_URL", "http://backend:5000/api")
		t.Setenv("PORTFOLIO_SESSION_FILE", "/tmp/s.json")

		cfg, err := LoadClient("")
		require.NoError(t, err)

		assert.Equal(t, "http://backend:5000/api", cfg.APIURL)
		assert.Equal(t, "/tmp/s.json", cfg.SessionFile)
		assert.Equal(t, 5*time.Second, cfg.BannerTTL)
		assert.Equal(t, 15*time.Second, cfg.Timeout)
	})

	t.Run("from file with default session path", func(t *testing.T) {
		path := writeFile(t, "cli.yaml", "api_url: http://example.test/api\n")

		cfg, err := LoadClient(path)
		require.NoError(t, err)

		assert.Equal(t, "http://example.test/api", cfg.APIURL)
		assert.Equal(t, "session.json", filepath.Base(cfg.SessionFile))
	})
}
