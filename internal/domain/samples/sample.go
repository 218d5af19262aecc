package samples

import "time"

// Sample is the root entity for one specimen. Both identifying fields are
// optional; an all-null sample is anonymous and never deduplicated.
type Sample struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       *string   `gorm:"column:name;type:varchar(500);index" json:"name,omitempty"`
	ExternalID *int64    `gorm:"column:external_id;index" json:"external_id,omitempty"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

func (Sample) TableName() string { return "sample" }

func (s *Sample) Anonymous() bool {
	return s != nil && s.Name == nil && s.ExternalID == nil
}
