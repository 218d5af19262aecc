package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/amrdb/internal/data/repos/catalog"
	"github.com/yungbote/amrdb/internal/data/repos/results"
	"github.com/yungbote/amrdb/internal/data/repos/samples"
	"github.com/yungbote/amrdb/internal/platform/logger"
)

type SequenceRepo = catalog.SequenceRepo
type PhenotypeRepo = catalog.PhenotypeRepo

type SampleRepo = samples.SampleRepo
type ContigRepo = samples.ContigRepo

type ToolVersionRepo = results.ToolVersionRepo
type SequenceResultRepo = results.SequenceResultRepo
type MutationResultRepo = results.MutationResultRepo
type RunRepo = results.RunRepo

func NewSequenceRepo(db *gorm.DB, baseLog *logger.Logger) SequenceRepo {
	return catalog.NewSequenceRepo(db, baseLog)
}
func NewPhenotypeRepo(db *gorm.DB, baseLog *logger.Logger) PhenotypeRepo {
	return catalog.NewPhenotypeRepo(db, baseLog)
}

func NewSampleRepo(db *gorm.DB, baseLog *logger.Logger) SampleRepo {
	return samples.NewSampleRepo(db, baseLog)
}
func NewContigRepo(db *gorm.DB, baseLog *logger.Logger) ContigRepo {
	return samples.NewContigRepo(db, baseLog)
}

func NewToolVersionRepo(db *gorm.DB, baseLog *logger.Logger) ToolVersionRepo {
	return results.NewToolVersionRepo(db, baseLog)
}
func NewSequenceResultRepo(db *gorm.DB, baseLog *logger.Logger) SequenceResultRepo {
	return results.NewSequenceResultRepo(db, baseLog)
}
func NewMutationResultRepo(db *gorm.DB, baseLog *logger.Logger) MutationResultRepo {
	return results.NewMutationResultRepo(db, baseLog)
}
func NewRunRepo(db *gorm.DB, baseLog *logger.Logger) RunRepo {
	return results.NewRunRepo(db, baseLog)
}

// Set bundles every repository the reconciliation engine and catalog refresh
// need.
type Set struct {
	Sequences       SequenceRepo
	Phenotypes      PhenotypeRepo
	Samples         SampleRepo
	Contigs         ContigRepo
	ToolVersions    ToolVersionRepo
	SequenceResults SequenceResultRepo
	MutationResults MutationResultRepo
	Runs            RunRepo
}

func NewSet(db *gorm.DB, baseLog *logger.Logger) Set {
	return Set{
		Sequences:       NewSequenceRepo(db, baseLog),
		Phenotypes:      NewPhenotypeRepo(db, baseLog),
		Samples:         NewSampleRepo(db, baseLog),
		Contigs:         NewContigRepo(db, baseLog),
		ToolVersions:    NewToolVersionRepo(db, baseLog),
		SequenceResults: NewSequenceResultRepo(db, baseLog),
		MutationResults: NewMutationResultRepo(db, baseLog),
		Runs:            NewRunRepo(db, baseLog),
	}
}
