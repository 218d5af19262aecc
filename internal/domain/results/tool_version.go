package results

import "time"

// InputType is the modality the producing tool consumed.
type InputType string

const (
	InputFasta InputType = "fasta"
	InputFastq InputType = "fastq"
)

// ToolVersion describes what produced a result row. Provenance only; it never
// takes part in identity resolution.
type ToolVersion struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ToolName    *string   `gorm:"column:tool_name;type:varchar(100);index" json:"tool_name,omitempty"`
	ToolVersion *string   `gorm:"column:tool_version;type:varchar(100)" json:"tool_version,omitempty"`
	InputType   *string   `gorm:"column:input_type;type:varchar(10)" json:"input_type,omitempty"`
	DBVersion   *string   `gorm:"column:db_version;type:varchar(100)" json:"db_version,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

func (ToolVersion) TableName() string { return "tool_version" }
