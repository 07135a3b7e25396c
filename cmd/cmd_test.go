package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"couple-journal-backend/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "couple-journal", cmd.Use)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)
	assert.Equal(t, "config.yaml", configFlag.DefValue)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"serve", "migrate"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestMigrateRejectsMemoryDriver(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "")
	path := writeConfig(t, "database:\n  driver: memory\nauth:\n  jwt_secret: test\nlog:\n  level: error\n")

	cmd := NewRootCommand()
	cmd.SetArgs([]string{"migrate", "--config", path})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "memory driver")
}

func TestRunFailsWithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	path := writeConfig(t, "database:\n  driver: memory\n")

	err := Run(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_secret")
}

func TestNewAppWithMemoryStore(t *testing.T) {
	cfg := config.Default()
	cfg.Database.Driver = "memory"
	cfg.Auth.JWTSecret = "test-secret"

	a, err := newApp(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(a.close)
	assert.Nil(t, a.db)

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	body := strings.NewReader(`{"name":"Alice","email":"alice@example.com","password":"secret123"}`)
	a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", body))
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// google routes are only mounted when credentials exist
	rec = httptest.NewRecorder()
	a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/login", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	sent, err := a.reminders.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestSetupLogger(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	cases := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"warn":    zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"verbose": zerolog.InfoLevel,
	}
	for level, want := range cases {
		setupLogger(level)
		assert.Equal(t, want, zerolog.GlobalLevel(), level)
	}
}
