package aggregates_test

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/amrdb/internal/data/aggregates"
	"github.com/yungbote/amrdb/internal/data/aggregates/testutil"
	domainrec "github.com/yungbote/amrdb/internal/domain/reconcile"
	"github.com/yungbote/amrdb/internal/platform/dbctx"
)

func TestExecuteWriteReportsOutcome(t *testing.T) {
	hooks := &testutil.HooksRecorder{}
	runner := &testutil.InjectedTxRunner{}
	deps := aggregates.BaseDeps{Runner: runner, Hooks: hooks}

	if err := aggregates.ExecuteWrite(context.Background(), deps, "catalog.refresh", func(dbctx.Context) error { return nil }); err != nil {
		t.Fatalf("ExecuteWrite success: %v", err)
	}
	err := aggregates.ExecuteWrite(context.Background(), deps, "catalog.refresh", func(dbctx.Context) error {
		return aggregates.ConflictError("dup")
	})
	if !domainrec.IsCode(err, domainrec.CodeConflict) {
		t.Fatalf("expected conflict code, got %v", err)
	}

	if len(hooks.Operations) != 2 {
		t.Fatalf("operations: want=2 got=%d", len(hooks.Operations))
	}
	if hooks.Operations[0].Status != "success" || hooks.Operations[1].Status != string(domainrec.CodeConflict) {
		t.Fatalf("unexpected statuses: %+v", hooks.Operations)
	}
	if len(hooks.Rollbacks) != 1 || hooks.Rollbacks[0] != (testutil.RollbackEvent{Name: "catalog.refresh", Code: domainrec.CodeConflict}) {
		t.Fatalf("rollbacks: %+v", hooks.Rollbacks)
	}
	if runner.CommitCalls != 1 || runner.RollbackCalls != 1 {
		t.Fatalf("runner counters commit=%d rollback=%d", runner.CommitCalls, runner.RollbackCalls)
	}
}

func TestExecuteWriteCommitFailure(t *testing.T) {
	runner := &testutil.InjectedTxRunner{FailCommit: errors.New("serialization failure")}
	err := aggregates.ExecuteWrite(context.Background(), aggregates.BaseDeps{Runner: runner}, "", func(dbctx.Context) error { return nil })
	if !domainrec.IsCode(err, domainrec.CodeRetryable) {
		t.Fatalf("expected retryable, got %v", err)
	}
}
