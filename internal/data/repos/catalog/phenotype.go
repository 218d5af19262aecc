package catalog

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/amrdb/internal/data/repos/upsert"
	types "github.com/yungbote/amrdb/internal/domain"
	"github.com/yungbote/amrdb/internal/platform/dbctx"
	"github.com/yungbote/amrdb/internal/platform/logger"
)

type PhenotypeRepo interface {
	// GetOrCreate is keyed by label only; className is a default applied on
	// first sight.
	GetOrCreate(dbc dbctx.Context, label string, className *string) (*types.Phenotype, bool, error)
	GetByLabel(dbc dbctx.Context, label string) (*types.Phenotype, error)
	UpdateClass(dbc dbctx.Context, id uint, className *string) error
	ListForSequence(dbc dbctx.Context, sequenceID uint) ([]*types.Phenotype, error)
	LinkSequence(dbc dbctx.Context, sequenceID uint, phenotypeIDs []uint) error
	// ClearSequenceLinks drops every sequence↔phenotype link of one catalog kind.
	ClearSequenceLinks(dbc dbctx.Context, kind types.CatalogKind) (int64, error)
}

type phenotypeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPhenotypeRepo(db *gorm.DB, baseLog *logger.Logger) PhenotypeRepo {
	return &phenotypeRepo{db: db, log: baseLog.With("repo", "PhenotypeRepo")}
}

func (r *phenotypeRepo) tx(dbc dbctx.Context) *gorm.DB {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx)
}

func (r *phenotypeRepo) GetOrCreate(dbc dbctx.Context, label string, className *string) (*types.Phenotype, bool, error) {
	label = strings.TrimSpace(label)
	return upsert.GetOrCreate(dbc, r.db, upsert.Keys{"phenotype": label}, func() *types.Phenotype {
		return &types.Phenotype{Label: label, ClassName: className}
	})
}

func (r *phenotypeRepo) GetByLabel(dbc dbctx.Context, label string) (*types.Phenotype, error) {
	var out []*types.Phenotype
	if err := r.tx(dbc).Where("phenotype = ?", strings.TrimSpace(label)).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *phenotypeRepo) UpdateClass(dbc dbctx.Context, id uint, className *string) error {
	if id == 0 {
		return nil
	}
	return r.tx(dbc).Model(&types.Phenotype{}).Where("id = ?", id).Update("class_name", className).Error
}

func (r *phenotypeRepo) ListForSequence(dbc dbctx.Context, sequenceID uint) ([]*types.Phenotype, error) {
	var out []*types.Phenotype
	if sequenceID == 0 {
		return out, nil
	}
	err := r.tx(dbc).
		Select("phenotype.*").
		Joins("JOIN cataloged_sequence_phenotype csp ON csp.phenotype_id = phenotype.id").
		Where("csp.sequence_id = ?", sequenceID).
		Order("phenotype.id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *phenotypeRepo) LinkSequence(dbc dbctx.Context, sequenceID uint, phenotypeIDs []uint) error {
	if sequenceID == 0 || len(phenotypeIDs) == 0 {
		return nil
	}
	links := make([]types.SequencePhenotype, 0, len(phenotypeIDs))
	seen := map[uint]bool{}
	for _, pid := range phenotypeIDs {
		if pid == 0 || seen[pid] {
			continue
		}
		seen[pid] = true
		links = append(links, types.SequencePhenotype{SequenceID: sequenceID, PhenotypeID: pid})
	}
	if len(links) == 0 {
		return nil
	}
	return r.tx(dbc).Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
}

func (r *phenotypeRepo) ClearSequenceLinks(dbc dbctx.Context, kind types.CatalogKind) (int64, error) {
	t := r.tx(dbc)
	sub := t.Session(&gorm.Session{NewDB: true}).Model(&types.CatalogedSequence{}).Select("id").Where("kind = ?", kind)
	res := t.Where("sequence_id IN (?)", sub).Delete(&types.SequencePhenotype{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
