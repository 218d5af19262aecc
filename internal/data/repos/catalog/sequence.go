package catalog

import (
	"gorm.io/gorm"

	types "github.com/yungbote/amrdb/internal/domain"
	"github.com/yungbote/amrdb/internal/platform/dbctx"
	"github.com/yungbote/amrdb/internal/platform/logger"
)

type SequenceRepo interface {
	Create(dbc dbctx.Context, seqs []*types.CatalogedSequence) ([]*types.CatalogedSequence, error)
	GetByID(dbc dbctx.Context, id uint) (*types.CatalogedSequence, error)
	// FindByAccession and FindByHash return matches in insertion order.
	FindByAccession(dbc dbctx.Context, kind types.CatalogKind, accession string) ([]*types.CatalogedSequence, error)
	FindByHash(dbc dbctx.Context, kind types.CatalogKind, hash string) ([]*types.CatalogedSequence, error)
	ListByKind(dbc dbctx.Context, kind types.CatalogKind) ([]*types.CatalogedSequence, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
	CountByKind(dbc dbctx.Context, kind types.CatalogKind) (int64, error)
}

type sequenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSequenceRepo(db *gorm.DB, baseLog *logger.Logger) SequenceRepo {
	return &sequenceRepo{db: db, log: baseLog.With("repo", "SequenceRepo")}
}

func (r *sequenceRepo) tx(dbc dbctx.Context) *gorm.DB {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx)
}

func (r *sequenceRepo) Create(dbc dbctx.Context, seqs []*types.CatalogedSequence) ([]*types.CatalogedSequence, error) {
	if len(seqs) == 0 {
		return []*types.CatalogedSequence{}, nil
	}
	if err := r.tx(dbc).Omit("Phenotypes").Create(&seqs).Error; err != nil {
		return nil, err
	}
	return seqs, nil
}

func (r *sequenceRepo) GetByID(dbc dbctx.Context, id uint) (*types.CatalogedSequence, error) {
	if id == 0 {
		return nil, nil
	}
	var out []*types.CatalogedSequence
	if err := r.tx(dbc).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *sequenceRepo) FindByAccession(dbc dbctx.Context, kind types.CatalogKind, accession string) ([]*types.CatalogedSequence, error) {
	var out []*types.CatalogedSequence
	if accession == "" {
		return out, nil
	}
	if err := r.tx(dbc).
		Where("kind = ? AND accession = ?", kind, accession).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sequenceRepo) FindByHash(dbc dbctx.Context, kind types.CatalogKind, hash string) ([]*types.CatalogedSequence, error) {
	var out []*types.CatalogedSequence
	if hash == "" {
		return out, nil
	}
	if err := r.tx(dbc).
		Where("kind = ? AND crc32_hash = ?", kind, hash).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sequenceRepo) ListByKind(dbc dbctx.Context, kind types.CatalogKind) ([]*types.CatalogedSequence, error) {
	var out []*types.CatalogedSequence
	if err := r.tx(dbc).Where("kind = ?", kind).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sequenceRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error {
	if id == 0 || len(updates) == 0 {
		return nil
	}
	return r.tx(dbc).Model(&types.CatalogedSequence{}).Where("id = ?", id).Updates(updates).Error
}

func (r *sequenceRepo) CountByKind(dbc dbctx.Context, kind types.CatalogKind) (int64, error) {
	var n int64
	if err := r.tx(dbc).Model(&types.CatalogedSequence{}).Where("kind = ?", kind).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
