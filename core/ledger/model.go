package ledger

import "time"

// Status is the lifecycle state of a run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Run is one harvest execution.
type Run struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	Kind       string     `gorm:"size:64;index" json:"kind"`
	Status     Status     `gorm:"size:16;index" json:"status"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Artifact   string     `gorm:"size:255" json:"artifact,omitempty"`
	Entities   int        `json:"entities"`
	// Requests is the harvester's request count, set when the run finishes.
	Requests int `json:"requests"`
	// Pages counts consumed outer and nested pages.
	Pages int `json:"pages"`
	// LastOffset is the offset of the last fully consumed outer page.
	LastOffset   int    `json:"last_offset"`
	FailedStage  string `gorm:"size:16" json:"failed_stage,omitempty"`
	FailedOffset int    `json:"failed_offset,omitempty"`
	FailedParent string `gorm:"size:66" json:"failed_parent,omitempty"`
	Error        string `gorm:"type:text" json:"error,omitempty"`
}

// TableName pins the table name across GORM naming strategies.
func (Run) TableName() string {
	return "harvest_runs"
}

// Duration returns the wall time of a finished run, or zero.
func (r Run) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// columns lists the columns the ledger reads and writes.
var columns = []string{
	"id", "kind", "status", "started_at", "finished_at", "artifact", "entities",
	"requests", "pages", "last_offset", "failed_stage", "failed_offset", "failed_parent", "error",
}
