package errors

import (
	"context"

	"github.com/google/uuid"
)

// contextKey avoids collisions with other packages' context values
type contextKey string

const requestIDKey contextKey = "request_id"

// GenerateRequestID mints a fresh request ID
func GenerateRequestID() string {
	return uuid.New().String()
}

// WithRequestID stores the request ID on the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID pulls the request ID off the context, or "" when absent
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// RequestIDOrGenerate prefers the context's request ID, minting one otherwise
func RequestIDOrGenerate(ctx context.Context) string {
	if requestID := GetRequestID(ctx); requestID != "" {
		return requestID
	}
	return GenerateRequestID()
}
