package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"FIELDOPS_APP_NAME":                  os.Getenv("FIELDOPS_APP_NAME"),
		"FIELDOPS_APP_ENV":                   os.Getenv("FIELDOPS_APP_ENV"),
		"FIELDOPS_APP_PORT":                  os.Getenv("FIELDOPS_APP_PORT"),
		"FIELDOPS_DATABASE_HOST":             os.Getenv("FIELDOPS_DATABASE_HOST"),
		"FIELDOPS_DATABASE_PORT":             os.Getenv("FIELDOPS_DATABASE_PORT"),
		"FIELDOPS_DATABASE_USER":             os.Getenv("FIELDOPS_DATABASE_USER"),
		"FIELDOPS_DATABASE_PASSWORD":         os.Getenv("FIELDOPS_DATABASE_PASSWORD"),
		"FIELDOPS_DATABASE_DBNAME":           os.Getenv("FIELDOPS_DATABASE_DBNAME"),
		"FIELDOPS_DATABASE_SSLMODE":          os.Getenv("FIELDOPS_DATABASE_SSLMODE"),
		"FIELDOPS_DATABASE_MAX_OPEN_CONNS":   os.Getenv("FIELDOPS_DATABASE_MAX_OPEN_CONNS"),
		"FIELDOPS_DATABASE_MAX_IDLE_CONNS":   os.Getenv("FIELDOPS_DATABASE_MAX_IDLE_CONNS"),
		"FIELDOPS_EVENT_IDEMPOTENCY_BACKEND": os.Getenv("FIELDOPS_EVENT_IDEMPOTENCY_BACKEND"),
		"FIELDOPS_EVENT_IDEMPOTENCY_TTL":     os.Getenv("FIELDOPS_EVENT_IDEMPOTENCY_TTL"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "fieldops-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "", cfg.Database.Password)
		assert.Equal(t, "fieldops", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, "memory", cfg.Event.IdempotencyBackend)
		assert.Equal(t, 24*time.Hour, cfg.Event.IdempotencyTTL)
	})

	t.Run("loads values from environment variables with FIELDOPS prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("FIELDOPS_APP_NAME", "test-app")
		os.Setenv("FIELDOPS_APP_ENV", "testing")
		os.Setenv("FIELDOPS_APP_PORT", "9000")
		os.Setenv("FIELDOPS_DATABASE_HOST", "testdb.local")
		os.Setenv("FIELDOPS_DATABASE_PORT", "5433")
		os.Setenv("FIELDOPS_DATABASE_USER", "testuser")
		os.Setenv("FIELDOPS_DATABASE_PASSWORD", "testpass")
		os.Setenv("FIELDOPS_DATABASE_DBNAME", "testdb")
		os.Setenv("FIELDOPS_DATABASE_SSLMODE", "require")
		os.Setenv("FIELDOPS_DATABASE_MAX_OPEN_CONNS", "50")
		os.Setenv("FIELDOPS_DATABASE_MAX_IDLE_CONNS", "10")
		os.Setenv("FIELDOPS_EVENT_IDEMPOTENCY_BACKEND", "redis")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "testdb", cfg.Database.DBName)
		assert.Equal(t, "require", cfg.Database.SSLMode)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, "redis", cfg.Event.IdempotencyBackend)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("FIELDOPS_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("FIELDOPS_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("zero MaxOpenConns uses default", func(t *testing.T) {
		clearEnv()
		os.Setenv("FIELDOPS_DATABASE_MAX_OPEN_CONNS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		// 0 is treated as "not set", so default (25) is used
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		clearEnv()
		os.Setenv("FIELDOPS_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be negative")
	})

	t.Run("rejects unknown idempotency backend", func(t *testing.T) {
		clearEnv()
		os.Setenv("FIELDOPS_EVENT_IDEMPOTENCY_BACKEND", "etcd")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "idempotency_backend")
	})

	t.Run("production requires password and TLS", func(t *testing.T) {
		clearEnv()
		os.Setenv("FIELDOPS_APP_ENV", "production")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "password")

		os.Setenv("FIELDOPS_DATABASE_PASSWORD", "secret")
		_, err = Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")

		os.Setenv("FIELDOPS_DATABASE_SSLMODE", "require")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseDSN(t *testing.T) {
	t.Run("escapes special characters in credentials", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user@domain",
			Password: "p@ss:word/with#special",
			DBName:   "fieldops",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()

		assert.Contains(t, dsn, "postgres://")
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "sslmode=disable")
		assert.NotContains(t, dsn, "p@ss:word/with#special")
	})
}

func TestRedisAddr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.local", Port: 6380}
	assert.Equal(t, "cache.local:6380", cfg.Addr())
}
