package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"beacon/config"
	deliverycontext "beacon/internal/delivery/context"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultGormSlowThreshold = 200 * time.Millisecond

// gormSlogLogger routes GORM output through the request-scoped logger, so a slow
// replay query or a failed mark-delivered carries the same request and user ids
// as the frame or queue message that caused it.
type gormSlogLogger struct {
	logger        *slog.Logger
	level         logger.LogLevel
	slowThreshold time.Duration
}

func newGormSlogLogger(baseLogger *slog.Logger, cfg *config.Config) logger.Interface {
	level := logger.Warn
	slowThreshold := defaultGormSlowThreshold
	if cfg != nil {
		if cfg.Env.Debug {
			level = logger.Info
		}
		if cfg.Env.Log.SlowQueryThreshold > 0 {
			slowThreshold = cfg.Env.Log.SlowQueryThreshold
		}
	}

	return &gormSlogLogger{
		logger:        baseLogger,
		level:         level,
		slowThreshold: slowThreshold,
	}
}

func (l *gormSlogLogger) LogMode(level logger.LogLevel) logger.Interface {
	cloned := *l
	cloned.level = level

	return &cloned
}

func (l *gormSlogLogger) Info(ctx context.Context, msg string, args ...any) {
	l.message(ctx, logger.Info, slog.LevelInfo, msg, args...)
}

func (l *gormSlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.message(ctx, logger.Warn, slog.LevelWarn, msg, args...)
}

func (l *gormSlogLogger) Error(ctx context.Context, msg string, args ...any) {
	l.message(ctx, logger.Error, slog.LevelError, msg, args...)
}

func (l *gormSlogLogger) message(ctx context.Context, threshold logger.LogLevel, level slog.Level, msg string, args ...any) {
	if l.level < threshold || l.logger == nil {
		return
	}

	attrs := append(contextAttrs(ctx), slog.String("message", fmt.Sprintf(msg, args...)))
	l.scoped(ctx).LogAttrs(ctx, level, "[Store] GORM message", attrs...)
}

func (l *gormSlogLogger) Trace(ctx context.Context, begin time.Time, sqlAndRowsFn func() (string, int64), err error) {
	if l.logger == nil || l.level == logger.Silent {
		return
	}

	elapsed := time.Since(begin)

	switch {
	// Not-found is an expected outcome of FindNotificationByID and mark-read
	case err != nil && l.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		attrs := append(queryAttrs(ctx, sqlAndRowsFn, elapsed), slog.String("error", err.Error()))
		l.scoped(ctx).LogAttrs(ctx, slog.LevelError, "[Store] Query failed", attrs...)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= logger.Warn:
		attrs := append(queryAttrs(ctx, sqlAndRowsFn, elapsed), slog.Duration("slow_threshold", l.slowThreshold))
		l.scoped(ctx).LogAttrs(ctx, slog.LevelWarn, "[Store] Slow query", attrs...)
	case l.level >= logger.Info:
		l.scoped(ctx).LogAttrs(ctx, slog.LevelDebug, "[Store] Query", queryAttrs(ctx, sqlAndRowsFn, elapsed)...)
	}
}

func (l *gormSlogLogger) scoped(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, l.logger)
}

// contextAttrs adds the ids a context-scoped logger may not already carry.
func contextAttrs(ctx context.Context) []slog.Attr {
	if deliverycontext.GetLogger(ctx) != nil {
		return nil
	}

	var attrs []slog.Attr
	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		attrs = append(attrs, slog.String("request_id", requestID))
	}
	if userID := deliverycontext.GetUserIDFromContext(ctx); userID != "" {
		attrs = append(attrs, slog.String("user_id", userID))
	}

	return attrs
}

func queryAttrs(ctx context.Context, sqlAndRowsFn func() (string, int64), elapsed time.Duration) []slog.Attr {
	sql, rows := sqlAndRowsFn()

	return append(contextAttrs(ctx),
		slog.Duration("elapsed", elapsed),
		slog.Int64("rows", rows),
		slog.String("sql", sql),
	)
}
