package bridge

import "context"

// contextKey is an unexported type for context keys defined in this package.
type contextKey int

const operationKey contextKey = iota

// ContextWithOperation returns a context carrying the operation name, used to
// label metrics and audit records for the execution it flows into.
func ContextWithOperation(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, operationKey, name)
}

func operationFrom(ctx context.Context) string {
	if v, ok := ctx.Value(operationKey).(string); ok && v != "" {
		return v
	}
	return "unknown"
}
