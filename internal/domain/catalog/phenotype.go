package catalog

import "time"

// Phenotype is a resistance/trait label, unique by label text.
type Phenotype struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Label     string    `gorm:"column:phenotype;type:varchar(100);not null;uniqueIndex" json:"phenotype"`
	ClassName *string   `gorm:"column:class_name;type:varchar(50)" json:"class_name,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Phenotype) TableName() string { return "phenotype" }

// SequencePhenotype is the join row between a catalogued sequence and a
// phenotype. Link sets are rebuilt wholesale on catalog refresh.
type SequencePhenotype struct {
	SequenceID  uint `gorm:"column:sequence_id;primaryKey" json:"sequence_id"`
	PhenotypeID uint `gorm:"column:phenotype_id;primaryKey;index" json:"phenotype_id"`
}

func (SequencePhenotype) TableName() string { return "cataloged_sequence_phenotype" }
