package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
	userIDKey    contextKey = "user_id"
)

// WithContext attaches logger to ctx
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the request logger, enriched with the active trace and
// span ids. It never returns nil.
func FromContext(ctx context.Context) *zap.Logger {
	l, ok := ctx.Value(loggerKey).(*zap.Logger)
	if !ok || l == nil {
		l = zap.NewNop()
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		l = l.With(
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	return l
}

// WithRequestID stores the request id and a logger carrying it
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) context.Context {
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	return WithContext(ctx, logger.With(zap.String("request_id", requestID)))
}

// WithUserID stores the authenticated admin id and extends the context logger
func WithUserID(ctx context.Context, userID string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok && l != nil {
		ctx = WithContext(ctx, l.With(zap.String("user_id", userID)))
	}
	return ctx
}

// GetRequestID returns the request id stored in ctx, or ""
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// GetUserID returns the admin id stored in ctx, or ""
func GetUserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
