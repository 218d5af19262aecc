package samples

import (
	"gorm.io/gorm"

	"github.com/yungbote/amrdb/internal/data/repos/upsert"
	types "github.com/yungbote/amrdb/internal/domain"
	"github.com/yungbote/amrdb/internal/platform/dbctx"
	"github.com/yungbote/amrdb/internal/platform/logger"
)

type SampleRepo interface {
	// GetOrCreate reuses a sample with exactly this (name, external_id) pair.
	// With both null a fresh anonymous sample is created on every call.
	GetOrCreate(dbc dbctx.Context, name *string, externalID *int64) (*types.Sample, bool, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Sample, error)
}

type sampleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSampleRepo(db *gorm.DB, baseLog *logger.Logger) SampleRepo {
	return &sampleRepo{db: db, log: baseLog.With("repo", "SampleRepo")}
}

func (r *sampleRepo) GetOrCreate(dbc dbctx.Context, name *string, externalID *int64) (*types.Sample, bool, error) {
	keys := upsert.Keys{"name": name, "external_id": externalID}
	s, created, err := upsert.GetOrCreate(dbc, r.db, keys, func() *types.Sample {
		return &types.Sample{Name: name, ExternalID: externalID}
	})
	if err != nil {
		return nil, false, err
	}
	if created && s.Anonymous() {
		r.log.Info("created anonymous sample; pass a name or external id to reuse it across imports", "sample_id", s.ID)
	}
	return s, created, nil
}

func (r *sampleRepo) GetByID(dbc dbctx.Context, id uint) (*types.Sample, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Sample
	if err := t.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}
