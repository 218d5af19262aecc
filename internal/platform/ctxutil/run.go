package ctxutil

import (
	"context"

	"github.com/yungbote/amrdb/internal/platform/logger"
)

type runDataKey struct{}

// RunData identifies the reconciliation run a context belongs to.
type RunData struct {
	RunID   string
	Tool    string
	TraceID string
}

func WithRunData(ctx context.Context, rd *RunData) context.Context {
	return context.WithValue(ctx, runDataKey{}, rd)
}

func GetRunData(ctx context.Context) *RunData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(runDataKey{}).(*RunData); ok {
		return rd
	}
	return nil
}

// Logger returns base tagged with the run carried by ctx, or base itself.
func Logger(ctx context.Context, base *logger.Logger) *logger.Logger {
	rd := GetRunData(ctx)
	if rd == nil || base == nil {
		return base
	}
	kv := []interface{}{"run_id", rd.RunID, "tool", rd.Tool}
	if rd.TraceID != "" {
		kv = append(kv, "trace_id", rd.TraceID)
	}
	return base.With(kv...)
}
