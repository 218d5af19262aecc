package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a run context with the transaction every step of that run writes through.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}
