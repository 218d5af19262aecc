package domain

import (
	"github.com/yungbote/amrdb/internal/domain/catalog"
	"github.com/yungbote/amrdb/internal/domain/results"
	"github.com/yungbote/amrdb/internal/domain/samples"
)

type (
	CatalogKind       = catalog.Kind
	CatalogedSequence = catalog.CatalogedSequence
	Phenotype         = catalog.Phenotype
	SequencePhenotype = catalog.SequencePhenotype

	Sample = samples.Sample
	Contig = samples.Contig

	ToolVersion       = results.ToolVersion
	SequenceResult    = results.SequenceResult
	MutationResult    = results.MutationResult
	MutationPhenotype = results.MutationPhenotype
	ReconcileRun      = results.ReconcileRun
	RunStatus         = results.RunStatus
	InputType         = results.InputType
)

const (
	KindResfinder = catalog.KindResfinder
	KindAmrfinder = catalog.KindAmrfinder

	RunSucceeded = results.RunSucceeded
	RunFailed    = results.RunFailed

	InputFasta = results.InputFasta
	InputFastq = results.InputFastq
)

// Models lists every persisted model in migration order.
func Models() []any {
	return []any{
		&catalog.Phenotype{},
		&catalog.CatalogedSequence{},
		&catalog.SequencePhenotype{},
		&samples.Sample{},
		&samples.Contig{},
		&results.ToolVersion{},
		&results.SequenceResult{},
		&results.MutationResult{},
		&results.MutationPhenotype{},
		&results.ReconcileRun{},
	}
}
