package app

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, 24*time.Hour, cfg.ActivationWindow)
	assert.Equal(t, 48*time.Hour, cfg.InactiveAccountTTL)
	assert.Equal(t, "log", cfg.Mail.Transport)
	assert.Equal(t, "fs", cfg.Avatars.Storage)
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
env: staging
port: 9090
activation_secret: from-file
activation_secret_fallbacks: [old-1, old-2]
activation_window: 2h
mail:
  transport: smtp
  smtp_host: mail.example
  smtp_tls: implicit
avatars:
  max_dimension: 128
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7070")
	t.Setenv("SMTP_PORT", "465")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Env)
	assert.Equal(t, 7070, cfg.Port, "env overrides file")
	assert.Equal(t, "from-file", cfg.ActivationSecret)
	assert.Equal(t, []string{"old-1", "old-2"}, cfg.ActivationSecretFallbacks)
	assert.Equal(t, 2*time.Hour, cfg.ActivationWindow)
	assert.Equal(t, 4*time.Hour, cfg.InactiveAccountTTL)
	assert.Equal(t, "smtp", cfg.Mail.Transport)
	assert.Equal(t, "mail.example", cfg.Mail.Host)
	assert.Equal(t, 465, cfg.Mail.Port)
	assert.Equal(t, "implicit", cfg.Mail.TLS)
	assert.Equal(t, 128, cfg.Avatars.MaxDimension)
	assert.Equal(t, int64(5<<20), cfg.Avatars.MaxBytes, "unset keys keep defaults")
}

func TestLoadConfigFallbacksFromEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("ACTIVATION_SECRET_FALLBACKS", " a, ,b ")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, cfg.ActivationSecretFallbacks)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	cases := map[string]func(*Config){
		"secret required outside dev": func(c *Config) { c.Env = "prod" },
		"postgres needs url":          func(c *Config) { c.DatabaseDriver = "postgres" },
		"unknown driver":              func(c *Config) { c.DatabaseDriver = "mysql" },
		"smtp needs host":             func(c *Config) { c.Mail.Transport = "smtp" },
		"unknown transport":           func(c *Config) { c.Mail.Transport = "pigeon" },
		"s3 needs bucket":             func(c *Config) { c.Avatars.Storage = "s3" },
		"zero window":                 func(c *Config) { c.ActivationWindow = 0 },
		"purge before links expire":   func(c *Config) { c.InactiveAccountTTL = c.ActivationWindow },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}

	require.NoError(t, defaultConfig().Validate())
}

func testConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()

	cfg := defaultConfig()
	cfg.LogLevel = "error"
	cfg.DatabaseFile = filepath.Join(dir, "accounts.db")
	cfg.PepperFile = filepath.Join(dir, "pepper")
	cfg.Avatars.Dir = filepath.Join(dir, "avatars")
	cfg.InactiveAccountTTL = 2 * cfg.ActivationWindow
	return cfg
}

func TestNewServesHealth(t *testing.T) {
	cfg := testConfig(t)

	application, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.db.Close() })

	for _, path := range []string{"/livez", "/readyz"} {
		rec := httptest.NewRecorder()
		application.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestMigrateAndPurge(t *testing.T) {
	cfg := testConfig(t)
	logger := slog.New(slog.DiscardHandler)
	ctx := context.Background()

	require.NoError(t, Migrate(ctx, cfg, logger))
	require.NoError(t, Migrate(ctx, cfg, logger), "migrations are idempotent")

	n, err := PurgeInactive(ctx, cfg, logger)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSessionKeysFromFile(t *testing.T) {
	t.Parallel()
	logger := slog.New(slog.DiscardHandler)

	ephemeral, err := InitSessionKeys(defaultConfig(), "http://x", logger)
	require.NoError(t, err)
	require.True(t, ephemeral.KeySet.IsReady())

	cfg := defaultConfig()
	cfg.SessionKeyFile = filepath.Join(t.TempDir(), "missing.pem")
	_, err = InitSessionKeys(cfg, "http://x", logger)
	require.Error(t, err)
}

func TestActivationSecrets(t *testing.T) {
	t.Parallel()
	logger := slog.New(slog.DiscardHandler)

	cfg := defaultConfig()
	primary, _, err := activationSecrets(cfg, logger)
	require.NoError(t, err)
	assert.NotEmpty(t, primary, "dev gets a random secret")

	cfg.Env = "prod"
	_, _, err = activationSecrets(cfg, logger)
	require.Error(t, err)

	cfg.ActivationSecret = "s"
	cfg.ActivationSecretFallbacks = []string{"old"}
	primary, fallbacks, err := activationSecrets(cfg, logger)
	require.NoError(t, err)
	assert.Equal(t, []byte("s"), primary)
	assert.Equal(t, [][]byte{[]byte("old")}, fallbacks)
}
