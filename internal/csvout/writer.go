// Package csvout writes a table.Table as comma-separated text.
package csvout

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/haytac/emoji-scrub/internal/table"
)

// Options controls the output format.
type Options struct {
	BOM        bool   `mapstructure:"bom"`
	CRLF       bool   `mapstructure:"crlf"`
	DateFormat string `mapstructure:"date_format"`
}

// WriteFile creates (or truncates) path and writes t to it.
func WriteFile(path string, t *table.Table, opts Options) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := Write(bw, t, opts); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Write emits the header row followed by one line per table row. No index
// column is written.
func Write(w io.Writer, t *table.Table, opts Options) error {
	var bom *transform.Writer
	if opts.BOM {
		bom = transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
		w = bom
	}
	cw := csv.NewWriter(w)
	cw.UseCRLF = opts.CRLF

	if err := cw.Write(t.Columns()); err != nil {
		return err
	}
	record := make([]string, t.NumColumns())
	for i := 0; i < t.NumRows(); i++ {
		for j := range record {
			record[j] = t.Cell(i, j).Format(opts.DateFormat)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	if bom != nil {
		return bom.Close()
	}
	return nil
}

// FileWriter writes tables to disk with fixed Options.
type FileWriter struct {
	Options Options
}

// Write implements interfaces.TableWriter.
func (w FileWriter) Write(path string, t *table.Table) error {
	return WriteFile(path, t, w.Options)
}
