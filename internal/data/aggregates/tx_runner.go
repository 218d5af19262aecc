package aggregates

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	domainrec "github.com/yungbote/amrdb/internal/domain/reconcile"
	"github.com/yungbote/amrdb/internal/observability"
	"github.com/yungbote/amrdb/internal/platform/dbctx"
)

// TxRunner is the single transaction boundary a batch writes through: the
// function either commits as a whole or leaves no trace.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

type gormTxRunner struct {
	db *gorm.DB
}

func NewGormTxRunner(db *gorm.DB) TxRunner {
	return &gormTxRunner{db: db}
}

func (r *gormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if r == nil || r.db == nil {
		return domainrec.NewError(domainrec.CodeInternal, "aggregate.tx", "transaction runner has nil db", nil)
	}
	ctx, span := observability.Tracer().Start(ctx, "db.transaction")
	defer span.End()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rolled back")
	}
	return err
}
