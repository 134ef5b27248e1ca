package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENV", "CI", "DB_DRIVER", "DB_USER", "DB_PASSWORD", "JWT_SECRET",
		"STORAGE_BACKEND", "S3_BUCKET_NAME", "MAIL_PROVIDER", "RESEND_API_KEY",
		"EMAIL_FROM", "NOTIFY_CRON", "RECONCILE_CRON", "REDIS_URL", "REDIS_HOST",
		"REDIS_DB", "CORS_ORIGINS",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("SECRETS_DIR", t.TempDir())
}

func TestLoadConfigDefaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "local", cfg.StorageBackend)
	assert.Equal(t, "log", cfg.MailProvider)
	assert.Equal(t, "25 11 * * 6", cfg.NotifyCron)
	assert.Equal(t, "0 3 * * *", cfg.ReconcileCron)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.False(t, cfg.RedisEnabled())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	isolateEnv(t)
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_USER", "recipes")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test ,")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Contains(t, cfg.PostgresDSN(), "user=recipes")
}

func TestLoadConfigReadsDockerSecrets(t *testing.T) {
	isolateEnv(t)
	dir := os.Getenv("SECRETS_DIR")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jwt_secret"), []byte("from-secret\n"), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-secret", cfg.JWTSecret)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid"},
		{name: "unknown driver", mutate: func(c *Config) { c.DBDriver = "mysql" }, wantErr: "DB_DRIVER"},
		{name: "postgres without credentials", mutate: func(c *Config) { c.DBDriver = "postgres" }, wantErr: "DB_USER"},
		{name: "s3 without bucket", mutate: func(c *Config) { c.StorageBackend = "s3" }, wantErr: "S3_BUCKET_NAME"},
		{name: "resend without key", mutate: func(c *Config) { c.MailProvider = "resend" }, wantErr: "RESEND_API_KEY"},
		{name: "origin without scheme", mutate: func(c *Config) { c.CORSOrigins = []string{"localhost:3000"} }, wantErr: "CORS_ORIGINS"},
		{name: "bad cron", mutate: func(c *Config) { c.NotifyCron = "every saturday" }, wantErr: "NOTIFY_CRON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			cfg := &Config{
				DBDriver:       "sqlite",
				DatabasePath:   "test.db",
				StorageBackend: "local",
				UploadDir:      "uploads",
				MailProvider:   "log",
				NotifyCron:     "25 11 * * 6",
				ReconcileCron:  "0 3 * * *",
				JWTSecret:      "x",
			}
			if tt.mutate != nil {
				tt.mutate(cfg)
			}

			err := ValidateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestProductionRequiresJWTSecret(t *testing.T) {
	isolateEnv(t)
	t.Setenv("ENV", "production")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.False(t, PrettyLogs())
}
