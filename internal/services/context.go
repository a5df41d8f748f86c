package services

import "context"

type contextKey string

const (
	runIDKey   contextKey = "run_id"
	profileKey contextKey = "profile"
	rowKey     contextKey = "row"
	stageKey   contextKey = "stage"
)

// WithRunID annotates context with the batch run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the batch run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithProfile annotates context with the media profile (pictures, videos).
func WithProfile(ctx context.Context, profile string) context.Context {
	if profile == "" {
		return ctx
	}
	return context.WithValue(ctx, profileKey, profile)
}

// ProfileFromContext returns the media profile if present.
func ProfileFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(profileKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRow annotates context with the 1-based table row being processed.
func WithRow(ctx context.Context, row int) context.Context {
	return context.WithValue(ctx, rowKey, row)
}

// RowFromContext extracts the table row if present.
func RowFromContext(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(rowKey).(int)
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}

// WithStage annotates context with the row stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(stageKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
