package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

const defaultSlowThreshold = 200 * time.Millisecond

// GormLogger routes GORM's query log through the application zap logger so
// SQL traces end up in the same stream, with the same request correlation,
// as everything else.
type GormLogger struct {
	base          *zap.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
	skipNotFound  bool
}

// GormLoggerOption tweaks a GormLogger at construction time.
type GormLoggerOption func(*GormLogger)

// WithSlowThreshold overrides the duration above which a query is logged as
// slow. Zero disables slow-query detection.
func WithSlowThreshold(d time.Duration) GormLoggerOption {
	return func(gl *GormLogger) { gl.slowThreshold = d }
}

// WithIgnoreRecordNotFoundError controls whether gorm.ErrRecordNotFound is
// treated as noise. Lookups that legitimately miss are the common case, so
// the default is to skip them.
func WithIgnoreRecordNotFoundError(ignore bool) GormLoggerOption {
	return func(gl *GormLogger) { gl.skipNotFound = ignore }
}

// NewGormLogger builds a gormlogger.Interface on top of the given zap logger.
func NewGormLogger(base *zap.Logger, level gormlogger.LogLevel, opts ...GormLoggerOption) *GormLogger {
	gl := &GormLogger{
		base:          base.Named("gorm"),
		level:         level,
		slowThreshold: defaultSlowThreshold,
		skipNotFound:  true,
	}
	for _, opt := range opts {
		opt(gl)
	}
	return gl
}

// LogMode returns a copy at the requested level. The receiver is not changed,
// GORM calls this per session.
func (gl *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *gl
	clone.level = level
	return &clone
}

func (gl *GormLogger) Info(_ context.Context, msg string, args ...any) {
	if gl.level >= gormlogger.Info {
		gl.base.Sugar().Infof(msg, args...)
	}
}

func (gl *GormLogger) Warn(_ context.Context, msg string, args ...any) {
	if gl.level >= gormlogger.Warn {
		gl.base.Sugar().Warnf(msg, args...)
	}
}

func (gl *GormLogger) Error(_ context.Context, msg string, args ...any) {
	if gl.level >= gormlogger.Error {
		gl.base.Sugar().Errorf(msg, args...)
	}
}

// Trace logs one finished statement. Errors win over slowness, slowness wins
// over the plain debug trace.
func (gl *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if gl.level <= gormlogger.Silent {
		return
	}

	sql, rows := fc()
	fields := []zap.Field{
		zap.Duration("elapsed", time.Since(begin)),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}
	if rid := GetRequestID(ctx); rid != "" {
		fields = append(fields, zap.String("request_id", rid))
	}

	switch {
	case err != nil && gl.level >= gormlogger.Error:
		if gl.skipNotFound && errors.Is(err, gormlogger.ErrRecordNotFound) {
			return
		}
		gl.base.Error("sql failed", append(fields, zap.Error(err))...)
	case gl.slowThreshold > 0 && time.Since(begin) > gl.slowThreshold && gl.level >= gormlogger.Warn:
		gl.base.Warn(fmt.Sprintf("slow sql >= %v", gl.slowThreshold), fields...)
	case gl.level >= gormlogger.Info:
		gl.base.Debug("sql trace", fields...)
	}
}

// MapGormLogLevel translates the textual application log level into the
// nearest GORM level. Unknown values fall back to Warn.
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "warn":
		return gormlogger.Warn
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
