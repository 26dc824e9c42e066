package logger

import (
	"context"

	"go.uber.org/zap"
)

// contextKey is a type for context keys used by the logger package
type contextKey string

const (
	// LoggerKey is the context key for the logger
	LoggerKey contextKey = "logger"
	// RequestIDKey is the context key for HTTP request IDs
	RequestIDKey contextKey = "request_id"
	// PassIDKey is the context key for the polling pass ID
	PassIDKey contextKey = "pass_id"
	// OrderIDKey is the context key for the order being processed
	OrderIDKey contextKey = "order_id"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from context, returns a no-op logger if
// not found
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID adds a request ID to context and returns the enriched logger
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, RequestIDKey, requestID)
	enriched := logger.With(zap.String("request_id", requestID))
	return WithContext(ctx, enriched), enriched
}

// WithPassID adds a polling pass ID to context and returns the enriched
// logger. Every log line of a pass carries the same pass_id so one pass can
// be traced end to end.
func WithPassID(ctx context.Context, logger *zap.Logger, passID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, PassIDKey, passID)
	enriched := logger.With(zap.String("pass_id", passID))
	return WithContext(ctx, enriched), enriched
}

// WithOrderID adds the order under processing to context and returns the
// enriched logger
func WithOrderID(ctx context.Context, logger *zap.Logger, orderID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, OrderIDKey, orderID)
	enriched := logger.With(zap.String("order_id", orderID))
	return WithContext(ctx, enriched), enriched
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// GetPassID retrieves the pass ID from context
func GetPassID(ctx context.Context) string {
	if passID, ok := ctx.Value(PassIDKey).(string); ok {
		return passID
	}
	return ""
}

// GetOrderID retrieves the order ID from context
func GetOrderID(ctx context.Context) string {
	if orderID, ok := ctx.Value(OrderIDKey).(string); ok {
		return orderID
	}
	return ""
}
