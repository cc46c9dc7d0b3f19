package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// SlowQueryThreshold is the statement duration logged as slow
const SlowQueryThreshold = 200 * time.Millisecond

// gormLogger routes GORM's statement log through zap. Statements issued with
// a request context are logged with that request's logger, so SQL lines carry
// the request, collection and actor fields of the call that issued them.
type gormLogger struct {
	base  *zap.Logger
	level gormlogger.LogLevel
	slow  time.Duration
}

// NewGormLogger creates a GORM logger writing to l at the given level
func NewGormLogger(l *zap.Logger, level gormlogger.LogLevel) gormlogger.Interface {
	return &gormLogger{base: l.Named("gorm"), level: level, slow: SlowQueryThreshold}
}

func (g *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *g
	cp.level = level
	return &cp
}

func (g *gormLogger) Info(ctx context.Context, msg string, data ...any) {
	if g.level >= gormlogger.Info {
		g.logger(ctx).Info(fmt.Sprintf(msg, data...))
	}
}

func (g *gormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if g.level >= gormlogger.Warn {
		g.logger(ctx).Warn(fmt.Sprintf(msg, data...))
	}
}

func (g *gormLogger) Error(ctx context.Context, msg string, data ...any) {
	if g.level >= gormlogger.Error {
		g.logger(ctx).Error(fmt.Sprintf(msg, data...))
	}
}

// Trace logs one executed statement. A lookup that found no rows is an answer
// the transports turn into not found, so it never logs as a failure.
func (g *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	l := g.logger(ctx)
	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}

	switch {
	case errors.Is(err, gormlogger.ErrRecordNotFound):
		if g.level >= gormlogger.Info {
			l.Debug("SQL lookup found no rows", fields...)
		}
	case err != nil:
		if g.level >= gormlogger.Error {
			l.Error("SQL statement failed", append(fields, zap.Error(err))...)
		}
	case g.slow > 0 && elapsed > g.slow && g.level >= gormlogger.Warn:
		l.Warn("Slow SQL statement", append(fields, zap.Duration("threshold", g.slow))...)
	case g.level >= gormlogger.Info:
		l.Debug("SQL statement", fields...)
	}
}

func (g *gormLogger) logger(ctx context.Context) *zap.Logger {
	if l := scopeOf(ctx).logger; l != nil {
		return l.Named("gorm")
	}
	return g.base
}

var gormLevels = map[string]gormlogger.LogLevel{
	"silent": gormlogger.Silent,
	"error":  gormlogger.Error,
	"warn":   gormlogger.Warn,
	"info":   gormlogger.Info,
	"debug":  gormlogger.Info,
}

// MapGormLogLevel maps the application log level to GORM's. Debug logging
// traces every statement; unknown levels log warnings and errors only.
func MapGormLogLevel(level string) gormlogger.LogLevel {
	if l, ok := gormLevels[level]; ok {
		return l
	}
	return gormlogger.Warn
}
