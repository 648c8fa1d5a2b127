// Package logger provides the application's structured logger built on
// log/slog: human-readable text in development, JSON in production, and an
// optional asynchronous MongoDB sink for the admin log viewer.
//
// Handlers receive a per-request child logger via WithCtx so every line is
// correlated by request_id:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("order created", "order_number", order.OrderNumber)
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/granthkosh/granthkosh/config"
)

var L *slog.Logger

func init() {
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}

	var handler slog.Handler
	switch config.AppEnv() {
	case "production", "prod":
		opts.Level = slog.LevelInfo
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	L = slog.New(handler)
	slog.SetDefault(L)
}

// EnableMongoSink tees every log record into the given Mongo collection in
// addition to stdout. Call once at boot when LOG_MONGO is set.
func EnableMongoSink(uri, db, collection string) error {
	h, err := NewMongoHandler(L.Handler(), uri, db, collection)
	if err != nil {
		return err
	}
	L = slog.New(h)
	slog.SetDefault(L)
	return nil
}

type ctxKey struct{}

// WithCtx returns the per-request logger stored in ctx by the logging
// middleware, or the base logger when none is present.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// Inject stores a pre-tagged *slog.Logger into ctx. Called by the request
// logging middleware; application code reads it back with WithCtx.
func Inject(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// Debug logs at DEBUG level on the base logger.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level on the base logger.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level on the base logger.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level on the base logger.
func Error(msg string, args ...any) { L.Error(msg, args...) }
