package results

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type RunStatus string

const (
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// ReconcileRun is the audit row written for every engine run, including runs
// that failed and were rolled back.
type ReconcileRun struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Tool              string         `gorm:"column:tool;type:varchar(30);not null;index" json:"tool"`
	SampleID          *uint          `gorm:"column:sample_id;index" json:"sample_id,omitempty"`
	Status            RunStatus      `gorm:"column:status;type:varchar(20);not null;index" json:"status"`
	Rows              int            `gorm:"column:rows;not null" json:"rows"`
	ResultsWritten    int            `gorm:"column:results_written;not null" json:"results_written"`
	VariantsAdded     int            `gorm:"column:variants_added;not null" json:"variants_added"`
	Mismatches        int            `gorm:"column:orientation_mismatches;not null" json:"orientation_mismatches"`
	CollisionFallback int            `gorm:"column:collision_fallbacks;not null" json:"collision_fallbacks"`
	Error             *string        `gorm:"column:error;type:text" json:"error,omitempty"`
	Diagnostics       datatypes.JSON `gorm:"column:diagnostics" json:"diagnostics,omitempty"`
	StartedAt         time.Time      `gorm:"not null;index" json:"started_at"`
	FinishedAt        time.Time      `gorm:"not null" json:"finished_at"`
}

func (ReconcileRun) TableName() string { return "reconcile_run" }
