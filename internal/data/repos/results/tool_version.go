package results

import (
	"gorm.io/gorm"

	"github.com/yungbote/amrdb/internal/data/repos/upsert"
	types "github.com/yungbote/amrdb/internal/domain"
	"github.com/yungbote/amrdb/internal/platform/dbctx"
	"github.com/yungbote/amrdb/internal/platform/logger"
)

type ToolVersionRepo interface {
	GetOrCreate(dbc dbctx.Context, v types.ToolVersion) (*types.ToolVersion, error)
}

type toolVersionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewToolVersionRepo(db *gorm.DB, baseLog *logger.Logger) ToolVersionRepo {
	return &toolVersionRepo{db: db, log: baseLog.With("repo", "ToolVersionRepo")}
}

func (r *toolVersionRepo) GetOrCreate(dbc dbctx.Context, v types.ToolVersion) (*types.ToolVersion, error) {
	keys := upsert.Keys{
		"tool_name":    v.ToolName,
		"tool_version": v.ToolVersion,
		"input_type":   v.InputType,
		"db_version":   v.DBVersion,
	}
	out, _, err := upsert.GetOrCreate(dbc, r.db, keys, func() *types.ToolVersion {
		return &types.ToolVersion{
			ToolName:    v.ToolName,
			ToolVersion: v.ToolVersion,
			InputType:   v.InputType,
			DBVersion:   v.DBVersion,
		}
	})
	return out, err
}
