package aggregates

import (
	"context"
	"strings"
	"time"

	domainrec "github.com/yungbote/amrdb/internal/domain/reconcile"
	"github.com/yungbote/amrdb/internal/platform/dbctx"
	"gorm.io/gorm"
)

type BaseDeps struct {
	DB     *gorm.DB
	Runner TxRunner
	Hooks  Hooks
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	return d
}

// ExecuteWrite runs fn in one transaction, maps any failure to a coded error
// and reports the outcome to the hooks.
func ExecuteWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	deps = deps.withDefaults()
	op = strings.TrimSpace(op)
	if op == "" {
		op = "aggregate.write"
	}
	err := deps.Runner.InTx(ctx, fn)
	mapped := MapError(op, err)

	status := "success"
	if mapped != nil {
		status = errorStatus(mapped)
		deps.Hooks.IncRollback(op, domainrec.CodeOf(mapped))
	}
	deps.Hooks.ObserveOperation(op, status, time.Since(start))
	return mapped
}

func errorStatus(err error) string {
	code := strings.TrimSpace(string(domainrec.CodeOf(err)))
	if code == "" {
		return "failure"
	}
	return code
}
