package catalog

import "time"

// Kind tags which reference database a catalogued sequence belongs to.
type Kind string

const (
	KindResfinder Kind = "resfinder"
	KindAmrfinder Kind = "amrfinder"
)

func (k Kind) Valid() bool {
	switch k {
	case KindResfinder, KindAmrfinder:
		return true
	}
	return false
}

// CatalogedSequence is the canonical reference for one gene/protein variant.
// (Kind, Accession, CRC32Hash) identifies an entry; accession and hash alone
// may each map to several rows.
type CatalogedSequence struct {
	ID                uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Kind              Kind    `gorm:"column:kind;type:varchar(20);not null;index:idx_cataloged_sequence_acc,priority:1;index:idx_cataloged_sequence_hash,priority:1" json:"kind"`
	Name              string  `gorm:"column:name;type:varchar(200);not null" json:"name"`
	ShortName         *string `gorm:"column:short_name;type:varchar(50)" json:"short_name,omitempty"`
	Accession         string  `gorm:"column:accession;type:varchar(50);not null;index:idx_cataloged_sequence_acc,priority:2" json:"accession"`
	MainNumbering     *string `gorm:"column:main_numbering;type:varchar(50)" json:"main_numbering,omitempty"`
	SubseqNumbering   *string `gorm:"column:subseq_numbering;type:varchar(50)" json:"subseq_numbering,omitempty"`
	InternalNumbering *string `gorm:"column:internal_numbering;type:varchar(100)" json:"internal_numbering,omitempty"`
	LongName          *string `gorm:"column:long_name;type:varchar(1000)" json:"long_name,omitempty"`
	ActivityType      *string `gorm:"column:activity_type;type:varchar(50)" json:"activity_type,omitempty"`
	IsCore            *bool   `gorm:"column:is_core" json:"is_core,omitempty"`
	CRC32Hash         string  `gorm:"column:crc32_hash;type:varchar(10);not null;index:idx_cataloged_sequence_hash,priority:2" json:"crc32_hash"`
	Sequence          string  `gorm:"column:sequence;type:text;not null" json:"sequence"`
	// Provisional marks entries registered from a near-identical hit whose
	// phenotypes were inherited from a relative rather than curated.
	Provisional bool      `gorm:"column:provisional;not null;default:false;index" json:"provisional"`
	CreatedAt   time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`

	Phenotypes []Phenotype `gorm:"many2many:cataloged_sequence_phenotype;joinForeignKey:SequenceID;joinReferences:PhenotypeID" json:"phenotypes,omitempty"`
}

func (CatalogedSequence) TableName() string { return "cataloged_sequence" }
