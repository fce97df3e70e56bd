package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

func TestNew(t *testing.T) {
	t.Run("creates a logger with defaults", func(t *testing.T) {
		logger, err := New(DefaultConfig())
		require.NoError(t, err)
		require.NotNil(t, logger)
		assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("honors the configured level", func(t *testing.T) {
		logger, err := New(&Config{Level: "debug", Format: "json", Output: "stdout"})
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
	})

	t.Run("production environment uses json format", func(t *testing.T) {
		logger, err := NewForEnvironment("production")
		require.NoError(t, err)
		require.NotNil(t, logger)
	})
}

func TestContextHelpers(t *testing.T) {
	t.Run("round trips the logger through context", func(t *testing.T) {
		logger := zap.NewNop()
		ctx := WithContext(context.Background(), logger)
		assert.Same(t, logger, FromContext(ctx))
	})

	t.Run("missing logger yields a no-op", func(t *testing.T) {
		assert.NotNil(t, FromContext(context.Background()))
	})

	t.Run("request, tenant and actor IDs are retrievable", func(t *testing.T) {
		logger := zap.NewNop()
		ctx := context.Background()

		ctx, _ = WithRequestID(ctx, logger, "req-1")
		ctx, _ = WithTenantID(ctx, logger, "tenant-1")
		ctx, _ = WithActorID(ctx, logger, "actor-1")

		assert.Equal(t, "req-1", GetRequestID(ctx))
		assert.Equal(t, "tenant-1", GetTenantID(ctx))
		assert.Equal(t, "actor-1", GetActorID(ctx))
	})

	t.Run("missing IDs are empty", func(t *testing.T) {
		ctx := context.Background()
		assert.Empty(t, GetRequestID(ctx))
		assert.Empty(t, GetTenantID(ctx))
		assert.Empty(t, GetActorID(ctx))
	})
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("info"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("unknown"))
}

func TestGormLogger(t *testing.T) {
	t.Run("LogMode returns a copy with the new level", func(t *testing.T) {
		gl := NewGormLogger(zap.NewNop(), gormlogger.Warn)
		changed := gl.LogMode(gormlogger.Info)

		assert.NotSame(t, gl, changed)
		assert.Equal(t, gormlogger.Warn, gl.level)
	})

	t.Run("options override defaults", func(t *testing.T) {
		gl := NewGormLogger(zap.NewNop(), gormlogger.Warn,
			WithSlowThreshold(0),
			WithIgnoreRecordNotFoundError(false),
		)
		assert.Equal(t, int64(0), int64(gl.slowThreshold))
		assert.False(t, gl.skipNotFound)
	})
}
