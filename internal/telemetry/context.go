package telemetry

import (
	"context"

	"github.com/google/uuid"
)

type contextKey int

const (
	operationIDKey contextKey = iota
	correlationIDKey
)

// NewShortID returns the first 8 hex characters of a random UUID.
func NewShortID() string {
	return uuid.NewString()[:8]
}

// WithOperationID tags ctx with the identifier of the unit of work in progress.
// Every log line written with ctx carries it as operation_id.
func WithOperationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, operationIDKey, id)
}

func OperationID(ctx context.Context) string {
	id, _ := ctx.Value(operationIDKey).(string)
	return id
}

// WithCorrelationID tags ctx with the caller-supplied request identifier.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey).(string)
	return id
}
