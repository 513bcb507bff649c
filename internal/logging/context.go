package logging

import "context"

type contextKey string

const (
	contextFieldsKey contextKey = "legalnotices.logging.fields"
	fieldRequestID              = "request_id"
)

// ContextWithFields returns a context carrying structured logging fields that
// console loggers merge into subsequent entries. Existing fields on the
// context are preserved and merged with the provided values.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}

	existing := ContextFields(ctx)
	merged := make(map[string]any, len(existing)+len(fields))
	for key, value := range existing {
		merged[key] = value
	}
	for key, value := range fields {
		merged[key] = value
	}
	return context.WithValue(ctx, contextFieldsKey, merged)
}

// ContextFields extracts previously annotated logging fields from the context.
// A copy is returned so callers can mutate the map freely.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, ok := ctx.Value(contextFieldsKey).(map[string]any)
	if !ok || len(fields) == 0 {
		return nil
	}

	copied := make(map[string]any, len(fields))
	for key, val := range fields {
		copied[key] = val
	}
	return copied
}

// ContextWithRequestID annotates the context with the request identifier.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return ContextWithFields(ctx, map[string]any{fieldRequestID: id})
}

// RequestIDFromContext returns the request identifier previously stored on ctx.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ContextFields(ctx)[fieldRequestID].(string)
	return id
}
