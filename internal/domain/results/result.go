package results

import (
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/amrdb/internal/domain/catalog"
)

// SequenceResult is one resolved hit against a catalogued sequence. Rows are
// append-only; a run never mutates an existing result.
type SequenceResult struct {
	ID          uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	RunID       uuid.UUID    `gorm:"column:run_id;type:uuid;not null;index" json:"run_id"`
	Kind        catalog.Kind `gorm:"column:kind;type:varchar(20);not null;index" json:"kind"`
	SampleID    uint         `gorm:"column:sample_id;not null;index" json:"sample_id"`
	ContigID    *uint        `gorm:"column:contig_id;index" json:"contig_id,omitempty"`
	SequenceID  uint         `gorm:"column:sequence_id;not null;index" json:"sequence_id"`
	VersionID   *uint        `gorm:"column:version_id;index" json:"version_id,omitempty"`
	Identity    float64      `gorm:"column:identity;not null" json:"identity"`
	Coverage    float64      `gorm:"column:coverage;not null" json:"coverage"`
	RefPosStart *int64       `gorm:"column:ref_pos_start" json:"ref_pos_start,omitempty"`
	RefPosEnd   *int64       `gorm:"column:ref_pos_end" json:"ref_pos_end,omitempty"`
	QCIssues    *string      `gorm:"column:qc_issues;type:varchar(1000)" json:"qc_issues,omitempty"`
	Orientation *string      `gorm:"column:orientation;type:varchar(1)" json:"orientation,omitempty"`
	Method      *string      `gorm:"column:method;type:varchar(30)" json:"method,omitempty"`
	// HashFallback is set when the accession had several variants and none
	// matched the hit's hash exactly.
	HashFallback bool      `gorm:"column:hash_fallback;not null;default:false" json:"hash_fallback"`
	CreatedAt    time.Time `gorm:"not null;index" json:"created_at"`

	Sequence *catalog.CatalogedSequence `gorm:"foreignKey:SequenceID;constraint:OnDelete:CASCADE" json:"-"`
}

func (SequenceResult) TableName() string { return "sequence_result" }

// MutationResult is one point mutation reported by a mutation caller, with
// the union of the phenotypes reported for it in the batch.
type MutationResult struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	RunID       uuid.UUID `gorm:"column:run_id;type:uuid;not null;index" json:"run_id"`
	Tool        string    `gorm:"column:tool;type:varchar(30);not null;index" json:"tool"`
	SampleID    uint      `gorm:"column:sample_id;not null;index" json:"sample_id"`
	ContigID    *uint     `gorm:"column:contig_id;index" json:"contig_id,omitempty"`
	VersionID   *uint     `gorm:"column:version_id;index" json:"version_id,omitempty"`
	Mutation    string    `gorm:"column:mutation;type:varchar(100);not null" json:"mutation"`
	NucChange   *string   `gorm:"column:nuc_change;type:varchar(50)" json:"nuc_change,omitempty"`
	Identity    *float64  `gorm:"column:identity" json:"identity,omitempty"`
	Coverage    *float64  `gorm:"column:coverage" json:"coverage,omitempty"`
	RefPosStart *int64    `gorm:"column:ref_pos_start" json:"ref_pos_start,omitempty"`
	RefPosEnd   *int64    `gorm:"column:ref_pos_end" json:"ref_pos_end,omitempty"`
	Orientation *string   `gorm:"column:orientation;type:varchar(1)" json:"orientation,omitempty"`
	Method      *string   `gorm:"column:method;type:varchar(30)" json:"method,omitempty"`
	CreatedAt   time.Time `gorm:"not null;index" json:"created_at"`

	Phenotypes []catalog.Phenotype `gorm:"many2many:mutation_result_phenotype;joinForeignKey:MutationResultID;joinReferences:PhenotypeID" json:"phenotypes,omitempty"`
}

func (MutationResult) TableName() string { return "mutation_result" }

type MutationPhenotype struct {
	MutationResultID uint `gorm:"column:mutation_result_id;primaryKey" json:"mutation_result_id"`
	PhenotypeID      uint `gorm:"column:phenotype_id;primaryKey;index" json:"phenotype_id"`
}

func (MutationPhenotype) TableName() string { return "mutation_result_phenotype" }
