// Package pipeline runs load → clean → save once.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/haytac/emoji-scrub/internal/cleaner"
	"github.com/haytac/emoji-scrub/internal/database"
	"github.com/haytac/emoji-scrub/internal/logging"
	"github.com/haytac/emoji-scrub/internal/metrics"
	"github.com/haytac/emoji-scrub/pkg/interfaces"
)

// Sources label where a run came from in metrics and history.
const (
	SourceCLI  = "cli"
	SourceHTTP = "http"
)

// Result describes a finished run.
type Result struct {
	Input   string
	Output  string
	Rows    int
	Columns int
	Stats   cleaner.Stats
	DryRun  bool
}

// Runner wires the three stages together.
type Runner struct {
	Loader   interfaces.TableLoader
	Cleaner  interfaces.TableTransformer
	Writer   interfaces.TableWriter
	Recorder interfaces.RunRecorder // optional
	Progress io.Writer              // receives the progress lines
	Sheet    string                 // recorded in history only
	DryRun   bool
}

// Run reads input, removes emoji from every text cell and writes output.
// The first failing stage aborts the run and its error is returned.
func (r *Runner) Run(ctx context.Context, input, output string) (*Result, error) {
	start := time.Now()
	res := &Result{Input: input, Output: output, DryRun: r.DryRun}

	err := r.run(res)

	Observe(SourceCLI, start, res, err)
	r.record(ctx, start, res, err)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Runner) run(res *Result) error {
	l := logging.RunLogger(SourceCLI, res.Input, res.Output)

	r.progress("Reading spreadsheet...")
	src, err := r.Loader.Load(res.Input)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	res.Rows, res.Columns = src.NumRows(), src.NumColumns()
	l.Debug().Int("rows", res.Rows).Int("columns", res.Columns).Msg("Spreadsheet loaded")

	r.progress("Cleaning emoji...")
	cleaned, stats := r.Cleaner.Table(src)
	res.Stats = stats
	l.Debug().Int("changed_cells", stats.ChangedCells).Int("emoji_removed", stats.EmojiRemoved).Msg("Table cleaned")

	if r.DryRun {
		r.progress(fmt.Sprintf("Dry run: %d rows would be saved to %s", cleaned.NumRows(), res.Output))
		return nil
	}
	if err := r.Writer.Write(res.Output, cleaned); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	r.progress(fmt.Sprintf("Done! File saved as: %s", res.Output))
	l.Info().Int("rows", cleaned.NumRows()).Msg("Clean run finished")
	return nil
}

func (r *Runner) progress(line string) {
	if r.Progress == nil {
		return
	}
	fmt.Fprintln(r.Progress, line)
}

// record stores the run in history. Failures are logged, never returned:
// the run's own outcome is what the caller needs.
func (r *Runner) record(ctx context.Context, start time.Time, res *Result, runErr error) {
	if r.Recorder == nil {
		return
	}
	run := NewRun(SourceCLI, start, res, runErr)
	run.Sheet = r.Sheet
	if _, err := r.Recorder.CreateRun(ctx, run); err != nil {
		log.Warn().Err(err).Msg("Failed to record run history")
	}
}

// NewRun builds a history entry for a run that started at start.
func NewRun(source string, start time.Time, res *Result, runErr error) *database.Run {
	run := &database.Run{
		Source:       source,
		InputPath:    res.Input,
		OutputPath:   res.Output,
		Rows:         res.Rows,
		Columns:      res.Columns,
		TextCells:    res.Stats.TextCells,
		ChangedCells: res.Stats.ChangedCells,
		EmojiRemoved: res.Stats.EmojiRemoved,
		Status:       database.RunSuccess,
		StartedAt:    start,
		FinishedAt:   time.Now(),
	}
	switch {
	case runErr != nil:
		msg := runErr.Error()
		run.Status, run.Error = database.RunError, &msg
	case res.DryRun:
		run.Status = database.RunDryRun
	}
	return run
}

// Observe records metrics for one run.
func Observe(source string, start time.Time, res *Result, runErr error) {
	status := "success"
	if runErr != nil {
		status = "error"
	}
	metrics.RunsTotal.WithLabelValues(source, status).Inc()
	metrics.RunDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	if res == nil {
		return
	}
	st := res.Stats
	metrics.CellsProcessed.WithLabelValues("text").Add(float64(st.TextCells))
	metrics.CellsProcessed.WithLabelValues("other").Add(float64(st.Cells - st.TextCells))
	metrics.CellsProcessed.WithLabelValues("changed").Add(float64(st.ChangedCells))
	metrics.EmojiRemoved.Add(float64(st.EmojiRemoved))
	if runErr == nil && !res.DryRun {
		metrics.RowsWritten.Add(float64(res.Rows))
	}
}
