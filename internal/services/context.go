package services

import "context"

type contextKey string

const (
	sampleIDKey  contextKey = "sample_id"
	stepKey      contextKey = "step"
	requestIDKey contextKey = "request_id"
)

// WithSampleID annotates context with the catalog sample identifier.
func WithSampleID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, sampleIDKey, id)
}

// SampleIDFromContext extracts the catalog sample identifier if present.
func SampleIDFromContext(ctx context.Context) (int64, bool) {
	v := ctx.Value(sampleIDKey)
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	default:
		return 0, false
	}
}

// WithStep annotates context with the pipeline step name.
func WithStep(ctx context.Context, step string) context.Context {
	if step == "" {
		return ctx
	}
	return context.WithValue(ctx, stepKey, step)
}

// StepFromContext returns the pipeline step name if present.
func StepFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(stepKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(requestIDKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}
