package middleware_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"kbingest/backend/internal/middleware"
)

func TestCorrelationID_RoundTrip(t *testing.T) {
	ctx := middleware.WithCorrelationID(context.Background(), "abc-123")
	assert.Equal(t, "abc-123", middleware.GetCorrelationID(ctx))
}

func TestCorrelationID_Missing(t *testing.T) {
	assert.Equal(t, "unknown", middleware.GetCorrelationID(context.Background()))
}
