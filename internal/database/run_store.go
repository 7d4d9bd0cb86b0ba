package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// RunStore records and lists clean runs.
type RunStore struct {
	db *DB
}

// NewRunStore creates a new RunStore.
func NewRunStore(db *DB) *RunStore {
	return &RunStore{db: db}
}

const runColumns = `id, source, input_path, output_path, sheet, row_count, column_count,
	text_cells, changed_cells, emoji_removed, status, error, started_at, finished_at`

func scanRun(scanner interface{ Scan(...interface{}) error }, r *Run) error {
	return scanner.Scan(
		&r.ID, &r.Source, &r.InputPath, &r.OutputPath, &r.Sheet, &r.Rows, &r.Columns,
		&r.TextCells, &r.ChangedCells, &r.EmojiRemoved, &r.Status, &r.Error, &r.StartedAt, &r.FinishedAt,
	)
}

// CreateRun inserts r and returns its ID.
func (s *RunStore) CreateRun(ctx context.Context, r *Run) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (source, input_path, output_path, sheet, row_count, column_count,
			text_cells, changed_cells, emoji_removed, status, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Source, r.InputPath, r.OutputPath, r.Sheet, r.Rows, r.Columns,
		r.TextCells, r.ChangedCells, r.EmojiRemoved, r.Status, r.Error, r.StartedAt.UTC(), r.FinishedAt.UTC())
	if err != nil {
		return 0, fmt.Errorf("CreateRun exec: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("CreateRun last insert id: %w", err)
	}
	r.ID = id
	return id, nil
}

// GetRunByID returns the run with the given ID, or nil if there is none.
func (s *RunStore) GetRunByID(ctx context.Context, id int64) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r := &Run{}
	if err := scanRun(row, r); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("GetRunByID scan: %w", err)
	}
	return r, nil
}

// ListRuns returns the most recent runs first. limit <= 0 returns all.
func (s *RunStore) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListRuns query: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r := &Run{}
		if err := scanRun(rows, r); err != nil {
			return nil, fmt.Errorf("ListRuns scan: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListRuns rows error: %w", err)
	}
	return runs, nil
}
