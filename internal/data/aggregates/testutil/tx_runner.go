package testutil

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"github.com/yungbote/amrdb/internal/data/aggregates"
	"github.com/yungbote/amrdb/internal/platform/dbctx"
)

// InjectedTxRunner is a TxRunner for failure-injection tests. When DB is set
// the body runs against it directly (no real transaction), so callers can
// observe what the body wrote even when a commit failure is injected.
type InjectedTxRunner struct {
	mu sync.Mutex

	DB *gorm.DB

	FailBegin      error
	FailBeforeBody error
	FailCommit     error

	BeginCalls    int
	CommitCalls   int
	RollbackCalls int
}

var _ aggregates.TxRunner = (*InjectedTxRunner)(nil)

func (r *InjectedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.BeginCalls++
	failBegin := r.FailBegin
	failBeforeBody := r.FailBeforeBody
	failCommit := r.FailCommit
	db := r.DB
	r.mu.Unlock()

	if failBegin != nil {
		return failBegin
	}
	if failBeforeBody != nil {
		r.rollback()
		return failBeforeBody
	}
	if fn == nil {
		r.commit()
		return nil
	}
	if err := fn(dbctx.Context{Ctx: ctx, Tx: db}); err != nil {
		r.rollback()
		return err
	}
	if failCommit != nil {
		r.rollback()
		return failCommit
	}
	r.commit()
	return nil
}

func (r *InjectedTxRunner) commit() {
	r.mu.Lock()
	r.CommitCalls++
	r.mu.Unlock()
}

func (r *InjectedTxRunner) rollback() {
	r.mu.Lock()
	r.RollbackCalls++
	r.mu.Unlock()
}
