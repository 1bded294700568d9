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
	tenantIDKey  contextKey = "tenant_id"
	userIDKey    contextKey = "user_id"
)

// WithContext attaches a logger to ctx
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger attached to ctx, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok && l != nil {
		return l
	}
	return zap.NewNop()
}

// WithRequestID stores the request ID and enriches the context logger with it
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withField(ctx, requestIDKey, requestID)
}

// WithTenantID stores the tenant ID. Repositories and the GORM tenant callback
// read it back through GetTenantID.
func WithTenantID(ctx context.Context, tenantID string) context.Context {
	return withField(ctx, tenantIDKey, tenantID)
}

// WithUserID stores the authenticated user ID
func WithUserID(ctx context.Context, userID string) context.Context {
	return withField(ctx, userIDKey, userID)
}

func withField(ctx context.Context, key contextKey, value string) context.Context {
	ctx = context.WithValue(ctx, key, value)
	return WithContext(ctx, FromContext(ctx).With(zap.String(string(key), value)))
}

// GetRequestID returns the request ID stored in ctx
func GetRequestID(ctx context.Context) string { return stringValue(ctx, requestIDKey) }

// GetTenantID returns the tenant ID stored in ctx
func GetTenantID(ctx context.Context) string { return stringValue(ctx, tenantIDKey) }

// GetUserID returns the user ID stored in ctx
func GetUserID(ctx context.Context) string { return stringValue(ctx, userIDKey) }

func stringValue(ctx context.Context, key contextKey) string {
	v, _ := ctx.Value(key).(string)
	return v
}

// L returns the context logger with the active span's trace and span IDs.
//
//	logger.L(ctx).Info("dues generated", zap.Int("created", n))
func L(ctx context.Context) *zap.Logger {
	l := FromContext(ctx)
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return l
	}
	return l.With(
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}
