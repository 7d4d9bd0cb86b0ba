package interfaces

import (
	"context"

	"github.com/haytac/emoji-scrub/internal/cleaner"
	"github.com/haytac/emoji-scrub/internal/database"
	"github.com/haytac/emoji-scrub/internal/table"
)

// TableLoader reads a spreadsheet file into a table.
type TableLoader interface {
	Load(path string) (*table.Table, error)
}

// TableTransformer maps every cell of a table into a new table.
type TableTransformer interface {
	Table(t *table.Table) (*table.Table, cleaner.Stats)
}

// TableWriter serializes a table to a file.
type TableWriter interface {
	Write(path string, t *table.Table) error
}

// RunRecorder persists the outcome of a run.
type RunRecorder interface {
	CreateRun(ctx context.Context, r *database.Run) (int64, error)
}
