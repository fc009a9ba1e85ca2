package middleware

import (
	"context"
)

type key int

const CorrelationKey key = 0

// The correlation id travels inside the message payload rather than a
// transport header, so every batch of a file's ingestion run shares one id.

func GetCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(CorrelationKey).(string); ok {
		return id
	}
	return "unknown"
}

func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelationKey, id)
}
