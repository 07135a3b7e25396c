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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  driver: memory
auth:
  jwt_secret: file-secret
  token_ttl: 2h
log:
  level: debug
app:
  timezone: UTC
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "debug", cfg.Log.Level)
	// defaults survive a partial file
	assert.Equal(t, 5, cfg.Server.RateLimit)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "auth:\n  jwt_secret: file-secret\n")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("PORT", "7000")
	t.Setenv("DATABASE_URL", "postgres://u:p@db/journal")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "postgres://u:p@db/journal", cfg.Database.DSN())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.Validate(), "jwt secret is required")

	cfg.Auth.JWTSecret = "s"
	cfg.Database.Driver = "mysql"
	assert.Error(t, cfg.Validate())

	cfg.Database.Driver = "postgres"
	cfg.App.Timezone = "Mars/Olympus"
	assert.Error(t, cfg.Validate())

	cfg.App.Timezone = "Asia/Ho_Chi_Minh"
	assert.NoError(t, cfg.Validate())
}

func TestDefaultLocation(t *testing.T) {
	loc, err := Default().App.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Ho_Chi_Minh", loc.String())

	_, offset := time.Date(2025, 3, 20, 12, 0, 0, 0, loc).Zone()
	assert.Equal(t, 7*60*60, offset)
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{Host: "h", Port: 5432, User: "u", Password: "p", DBName: "d", SSLMode: "disable"}
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=d sslmode=disable", db.DSN())
}
