package samples

import "time"

// Contig is an assembly unit scoped to one sample, identified by (sample, name).
type Contig struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SampleID  uint      `gorm:"column:sample_id;not null;uniqueIndex:idx_contig_sample_name,priority:1" json:"sample_id"`
	Name      string    `gorm:"column:name;type:varchar(500);not null;uniqueIndex:idx_contig_sample_name,priority:2" json:"name"`
	Length    *int64    `gorm:"column:length" json:"length,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`

	Sample *Sample `gorm:"foreignKey:SampleID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Contig) TableName() string { return "contig" }
