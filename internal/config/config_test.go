package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.App.Env)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "X-Skillrat-Tenant", cfg.Tenant.Header)
	assert.Equal(t, "X-Principal-Claims", cfg.Tenant.ClaimsHeader)
	assert.Equal(t, "tenant_id", cfg.Tenant.ClaimKey)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL())
	assert.Equal(t, 720*time.Hour, cfg.RefreshTTL())
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9090"
tenant:
  base_domain: skillrat.io
token:
  access_ttl: 5m
storage:
  driver: redis
  redis:
    addr: localhost:6379
clients:
  - client_id: gateway
    secret: dev-secret
    grant_types:
      - urn:ietf:params:oauth:grant-type:skillrat-password
    scopes: [read, write]
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "skillrat.io", cfg.Tenant.BaseDomain)
	assert.Equal(t, 5*time.Minute, cfg.AccessTTL())
	assert.Equal(t, "redis", cfg.Storage.Driver)
	require.Len(t, cfg.Clients, 1)
	assert.Equal(t, "gateway", cfg.Clients[0].ClientID)
	assert.Equal(t, []string{"read", "write"}, cfg.Clients[0].Scopes)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("AUTHD_ADDR", ":7070")
	t.Setenv("AUTHD_STORAGE_DRIVER", "postgres")
	t.Setenv("AUTHD_PG_DSN", "postgres://x")
	t.Setenv("AUTHD_ACCESS_TTL", "1m")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, "postgres://x", cfg.Storage.Postgres.DSN)
	assert.Equal(t, time.Minute, cfg.AccessTTL())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	assert.Error(t, err)
}

func TestDurationHelper(t *testing.T) {
	assert.Equal(t, time.Minute, D("1m", time.Second))
	assert.Equal(t, time.Second, D("", time.Second))
	assert.Equal(t, time.Second, D("garbage", time.Second))
	assert.Equal(t, time.Second, D("-5s", time.Second))
}
