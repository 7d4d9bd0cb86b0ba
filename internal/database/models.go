package database

import (
	"time"
)

// Run statuses.
const (
	RunSuccess = "success"
	RunError   = "error"
	RunDryRun  = "dry_run"
)

// Run is one recorded clean run.
type Run struct {
	ID           int64     `db:"id"`
	Source       string    `db:"source"` // cli, http
	InputPath    string    `db:"input_path"`
	OutputPath   string    `db:"output_path"`
	Sheet        string    `db:"sheet"`
	Rows         int       `db:"row_count"`
	Columns      int       `db:"column_count"`
	TextCells    int       `db:"text_cells"`
	ChangedCells int       `db:"changed_cells"`
	EmojiRemoved int       `db:"emoji_removed"`
	Status       string    `db:"status"`
	Error        *string   `db:"error"`
	StartedAt    time.Time `db:"started_at"`
	FinishedAt   time.Time `db:"finished_at"`
}

// Duration is how long the run took.
func (r *Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
