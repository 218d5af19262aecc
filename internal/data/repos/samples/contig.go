package samples

import (
	"gorm.io/gorm"

	"github.com/yungbote/amrdb/internal/data/repos/upsert"
	types "github.com/yungbote/amrdb/internal/domain"
	"github.com/yungbote/amrdb/internal/platform/dbctx"
	"github.com/yungbote/amrdb/internal/platform/logger"
)

type ContigRepo interface {
	// GetOrCreate is keyed by (sample, name); length is a default. An existing
	// contig without a length picks up the supplied one.
	GetOrCreate(dbc dbctx.Context, sampleID uint, name string, length *int64) (*types.Contig, bool, error)
	ListBySample(dbc dbctx.Context, sampleID uint) ([]*types.Contig, error)
}

type contigRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContigRepo(db *gorm.DB, baseLog *logger.Logger) ContigRepo {
	return &contigRepo{db: db, log: baseLog.With("repo", "ContigRepo")}
}

func (r *contigRepo) tx(dbc dbctx.Context) *gorm.DB {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx)
}

func (r *contigRepo) GetOrCreate(dbc dbctx.Context, sampleID uint, name string, length *int64) (*types.Contig, bool, error) {
	keys := upsert.Keys{"sample_id": sampleID, "name": name}
	c, created, err := upsert.GetOrCreate(dbc, r.db, keys, func() *types.Contig {
		return &types.Contig{SampleID: sampleID, Name: name, Length: length}
	})
	if err != nil {
		return nil, false, err
	}
	if !created && c.Length == nil && length != nil {
		if err := r.tx(dbc).Model(&types.Contig{}).Where("id = ?", c.ID).Update("length", *length).Error; err != nil {
			return nil, false, err
		}
		l := *length
		c.Length = &l
	}
	return c, created, nil
}

func (r *contigRepo) ListBySample(dbc dbctx.Context, sampleID uint) ([]*types.Contig, error) {
	var out []*types.Contig
	if err := r.tx(dbc).Where("sample_id = ?", sampleID).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
