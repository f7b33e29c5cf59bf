package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `
app:
  name: quick-desk
  env: production
server:
  port: 9090
database:
  driver: sqlite3
  path: /tmp/test.db
auth:
  jwt:
    secret: test-secret
    token_ttl: 24h
auto_close:
  enabled: true
  after: 48h
`)

	require.NoError(t, LoadFromFile(path))
	c := Get()
	require.NotNil(t, c)

	assert.Equal(t, "production", c.App.Env)
	assert.True(t, c.App.IsProduction())
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, "sqlite3", c.Database.Driver)
	assert.Equal(t, "test-secret", c.Auth.JWT.Secret)
	assert.Equal(t, 24*time.Hour, c.Auth.JWT.TokenTTL)
	assert.True(t, c.AutoClose.Enabled)
	assert.Equal(t, 48*time.Hour, c.AutoClose.After)

	// Defaults still fill the gaps.
	assert.Equal(t, "auth_token", c.Auth.Session.CookieName)
	assert.Equal(t, "info", c.Logging.Level)
	assert.Equal(t, 25, c.Database.MaxOpenConns)
}

func TestLoadFromFileMissing(t *testing.T) {
	assert.Error(t, LoadFromFile("/nonexistent/config.yaml"))
}

func TestOnReloadHooks(t *testing.T) {
	var got *Config
	OnReload(func(c *Config) { got = c })

	fresh := &Config{}
	fresh.Logging.Level = "debug"
	notifyReload(fresh)

	require.NotNil(t, got)
	assert.Equal(t, "debug", got.Logging.Level)
}

func TestGetDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{
			"postgres",
			DatabaseConfig{Driver: "postgres", Host: "db", Port: 5432, User: "qd", Password: "pw", Name: "quickdesk", SSLMode: "disable"},
			"host=db port=5432 user=qd password=pw dbname=quickdesk sslmode=disable",
		},
		{
			"mysql",
			DatabaseConfig{Driver: "mysql", Host: "db", Port: 3306, User: "qd", Password: "pw", Name: "quickdesk"},
			"qd:pw@tcp(db:3306)/quickdesk?parseTime=true",
		},
		{
			"sqlite3 with path",
			DatabaseConfig{Driver: "sqlite3", Path: "/data/qd.db"},
			"/data/qd.db",
		},
		{
			"sqlite3 default path",
			DatabaseConfig{Driver: "sqlite3"},
			"quickdesk.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.GetDSN())
		})
	}
}

func TestGetRedisAddr(t *testing.T) {
	c := RedisConfig{Host: "cache", Port: 6379}
	assert.Equal(t, "cache:6379", c.GetRedisAddr())
}
