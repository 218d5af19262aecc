package ctxutil

import (
	"context"
	"testing"

	"github.com/yungbote/amrdb/internal/platform/logger"
)

func TestRunDataRoundTrip(t *testing.T) {
	if GetRunData(context.Background()) != nil {
		t.Fatalf("expected no run data")
	}
	ctx := WithRunData(context.Background(), &RunData{RunID: "r1", Tool: "resfinder"})
	rd := GetRunData(ctx)
	if rd == nil || rd.RunID != "r1" || rd.Tool != "resfinder" {
		t.Fatalf("got %+v", rd)
	}
}

func TestLoggerFallsBackToBase(t *testing.T) {
	base, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	if got := Logger(context.Background(), base); got != base {
		t.Fatalf("expected base logger without run data")
	}
	ctx := WithRunData(context.Background(), &RunData{RunID: "r1", Tool: "amrfinder", TraceID: "abc"})
	if got := Logger(ctx, base); got == base || got == nil {
		t.Fatalf("expected a derived logger")
	}
}
