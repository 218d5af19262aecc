package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/amrdb/internal/catalogsync"
	"github.com/yungbote/amrdb/internal/config"
	"github.com/yungbote/amrdb/internal/data/aggregates"
	"github.com/yungbote/amrdb/internal/data/repos"
	"github.com/yungbote/amrdb/internal/observability"
	"github.com/yungbote/amrdb/internal/platform/logger"
	"github.com/yungbote/amrdb/internal/reconcile"
)

type Services struct {
	Reconcile *reconcile.Engine
	Catalog   *catalogsync.Refresher
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg *config.Config, reposet repos.Set, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")
	runner := aggregates.NewGormTxRunner(db)
	return Services{
		Reconcile: reconcile.NewEngine(db, reposet, runner, metrics, reconcile.Options{
			InternalTag:        cfg.Reconcile.InternalTag,
			PhenotypeDelimiter: cfg.Reconcile.PhenotypeDelimiter,
			Thresholds: reconcile.Thresholds{
				IdentityMin: cfg.Reconcile.IdentityMin,
				CoverageMin: cfg.Reconcile.CoverageMin,
			},
		}, log),
		Catalog: catalogsync.NewRefresher(db, reposet, runner, metrics, log),
	}
}
