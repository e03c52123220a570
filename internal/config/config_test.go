package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	path := writeConfig(t, `
store:
  path: /data/analitico.duckdb
  read_only: true
server:
  port: 9000
  rate_limit_cap: 10
  allowed_origins:
    - http://localhost:5173
`)
	t.Setenv("HTTP_PORT", "9100")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/analitico.duckdb", cfg.Store.Path)
	assert.Equal(t, 9100, cfg.Server.Port, "environment beats the file")
	assert.Equal(t, 10, cfg.Server.RateLimitCap)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 10*time.Second, cfg.Server.RequestDeadline, "default survives partial file")
}

func TestLoadRequiresStorePath(t *testing.T) {
	t.Setenv("STORE_PATH", "")
	_, err := Load("")
	assert.ErrorContains(t, err, "store path")
}

func TestLoadRejectsWritableStore(t *testing.T) {
	path := writeConfig(t, `
store:
  path: /data/analitico.duckdb
  read_only: false
`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "read_only")
}

func TestLoadRejectsWildcardOrigin(t *testing.T) {
	path := writeConfig(t, `
store:
  path: /data/analitico.duckdb
  read_only: true
server:
  allowed_origins: ["*"]
`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "wildcard")
}
