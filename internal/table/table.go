package table

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Kind identifies which payload a Cell carries.
type Kind int

const (
	Empty Kind = iota
	Text
	Number
	Date
	Bool
)

// DefaultDateLayout is the rendering used for Date cells unless the writer overrides it.
const DefaultDateLayout = "2006-01-02 15:04:05"

// TimeOfDayLayout renders Date cells that carry only a clock time.
const TimeOfDayLayout = "15:04:05"

// Numbers at or above this magnitude are written in exponent form.
const maxPlainNumber = 1e21

func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Text:
		return "text"
	case Number:
		return "number"
	case Date:
		return "date"
	case Bool:
		return "bool"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Cell is a single value at a (row, column) position.
// Only the field matching Kind is meaningful.
type Cell struct {
	Kind Kind
	Str  string
	Num  float64
	Time time.Time
	Flag bool
	// TimeOnly marks a Date cell without a calendar day.
	TimeOnly bool
}

// TextCell returns a Text cell.
func TextCell(s string) Cell { return Cell{Kind: Text, Str: s} }

// NumberCell returns a Number cell.
func NumberCell(v float64) Cell { return Cell{Kind: Number, Num: v} }

// DateCell returns a Date cell.
func DateCell(t time.Time) Cell { return Cell{Kind: Date, Time: t} }

// TimeOfDayCell returns a Date cell holding only the clock time of t.
func TimeOfDayCell(t time.Time) Cell { return Cell{Kind: Date, Time: t, TimeOnly: true} }

// BoolCell returns a Bool cell.
func BoolCell(b bool) Cell { return Cell{Kind: Bool, Flag: b} }

// EmptyCell returns an Empty cell.
func EmptyCell() Cell { return Cell{} }

// IsText reports whether the cell holds text.
func (c Cell) IsText() bool { return c.Kind == Text }

// String renders the cell the way it appears in delimited output.
func (c Cell) String() string {
	return c.Format(DefaultDateLayout)
}

// Format renders the cell, using dateLayout for Date cells that have a day.
func (c Cell) Format(dateLayout string) string {
	switch c.Kind {
	case Text:
		return c.Str
	case Number:
		return formatNumber(c.Num)
	case Date:
		if c.TimeOnly {
			return c.Time.Format(TimeOfDayLayout)
		}
		if dateLayout == "" {
			dateLayout = DefaultDateLayout
		}
		return c.Time.Format(dateLayout)
	case Bool:
		if c.Flag {
			return "True"
		}
		return "False"
	default:
		return ""
	}
}

// formatNumber writes v as the shortest decimal that parses back to v,
// without an exponent below 1e21.
func formatNumber(v float64) string {
	if math.Abs(v) < maxPlainNumber {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Table is an ordered set of named columns with rows aligned by index.
type Table struct {
	columns []string
	rows    [][]Cell
}

// New builds a Table. Rows shorter than the column list are padded with
// Empty cells; rows longer than it are rejected.
func New(columns []string, rows [][]Cell) (*Table, error) {
	cols := append([]string(nil), columns...)
	out := make([][]Cell, len(rows))
	for i, r := range rows {
		if len(r) > len(cols) {
			return nil, fmt.Errorf("row %d has %d cells, table has %d columns", i, len(r), len(cols))
		}
		row := make([]Cell, len(cols))
		copy(row, r)
		out[i] = row
	}
	return &Table{columns: cols, rows: out}, nil
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// NumColumns returns the column count.
func (t *Table) NumColumns() int { return len(t.columns) }

// NumRows returns the row count, header excluded.
func (t *Table) NumRows() int { return len(t.rows) }

// Cell returns the cell at (row, col).
func (t *Table) Cell(row, col int) Cell { return t.rows[row][col] }

// Row returns a copy of row i.
func (t *Table) Row(i int) []Cell {
	return append([]Cell(nil), t.rows[i]...)
}

// Map applies fn to every cell and returns a new Table. t is left untouched.
func (t *Table) Map(fn func(Cell) Cell) *Table {
	rows := make([][]Cell, len(t.rows))
	for i, r := range t.rows {
		row := make([]Cell, len(r))
		for j, c := range r {
			row[j] = fn(c)
		}
		rows[i] = row
	}
	return &Table{columns: t.Columns(), rows: rows}
}
