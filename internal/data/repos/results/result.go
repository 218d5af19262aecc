package results

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/amrdb/internal/domain"
	"github.com/yungbote/amrdb/internal/platform/dbctx"
	"github.com/yungbote/amrdb/internal/platform/logger"
)

const createBatchSize = 500

type SequenceResultRepo interface {
	Create(dbc dbctx.Context, rows []*types.SequenceResult) ([]*types.SequenceResult, error)
	ListByRun(dbc dbctx.Context, runID uuid.UUID) ([]*types.SequenceResult, error)
}

type sequenceResultRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSequenceResultRepo(db *gorm.DB, baseLog *logger.Logger) SequenceResultRepo {
	return &sequenceResultRepo{db: db, log: baseLog.With("repo", "SequenceResultRepo")}
}

func (r *sequenceResultRepo) Create(dbc dbctx.Context, rows []*types.SequenceResult) ([]*types.SequenceResult, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.SequenceResult{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Omit(clause.Associations).CreateInBatches(&rows, createBatchSize).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *sequenceResultRepo) ListByRun(dbc dbctx.Context, runID uuid.UUID) ([]*types.SequenceResult, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.SequenceResult
	if runID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).Where("run_id = ?", runID).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

type MutationResultRepo interface {
	Create(dbc dbctx.Context, rows []*types.MutationResult) ([]*types.MutationResult, error)
	LinkPhenotypes(dbc dbctx.Context, resultID uint, phenotypeIDs []uint) error
	ListByRun(dbc dbctx.Context, runID uuid.UUID) ([]*types.MutationResult, error)
}

type mutationResultRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMutationResultRepo(db *gorm.DB, baseLog *logger.Logger) MutationResultRepo {
	return &mutationResultRepo{db: db, log: baseLog.With("repo", "MutationResultRepo")}
}

func (r *mutationResultRepo) tx(dbc dbctx.Context) *gorm.DB {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx)
}

func (r *mutationResultRepo) Create(dbc dbctx.Context, rows []*types.MutationResult) ([]*types.MutationResult, error) {
	if len(rows) == 0 {
		return []*types.MutationResult{}, nil
	}
	if err := r.tx(dbc).Omit(clause.Associations).CreateInBatches(&rows, createBatchSize).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *mutationResultRepo) LinkPhenotypes(dbc dbctx.Context, resultID uint, phenotypeIDs []uint) error {
	if resultID == 0 || len(phenotypeIDs) == 0 {
		return nil
	}
	links := make([]types.MutationPhenotype, 0, len(phenotypeIDs))
	seen := map[uint]bool{}
	for _, pid := range phenotypeIDs {
		if pid == 0 || seen[pid] {
			continue
		}
		seen[pid] = true
		links = append(links, types.MutationPhenotype{MutationResultID: resultID, PhenotypeID: pid})
	}
	if len(links) == 0 {
		return nil
	}
	return r.tx(dbc).Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
}

// ListByRun preloads phenotypes.
func (r *mutationResultRepo) ListByRun(dbc dbctx.Context, runID uuid.UUID) ([]*types.MutationResult, error) {
	var out []*types.MutationResult
	if runID == uuid.Nil {
		return out, nil
	}
	if err := r.tx(dbc).Preload("Phenotypes").Where("run_id = ?", runID).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
