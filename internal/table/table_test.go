package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellFormat(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)
	cases := []struct {
		name string
		cell Cell
		want string
	}{
		{"empty", EmptyCell(), ""},
		{"text", TextCell("hello, world"), "hello, world"},
		{"integer", NumberCell(42), "42"},
		{"fraction", NumberCell(3.5), "3.5"},
		{"negative", NumberCell(-0.25), "-0.25"},
		{"seven digits", NumberCell(1234567), "1234567"},
		{"date key", NumberCell(20240101), "20240101"},
		{"phone number", NumberCell(13800138000), "13800138000"},
		{"large negative", NumberCell(-1e15), "-1000000000000000"},
		{"small fraction", NumberCell(0.0000125), "0.0000125"},
		{"huge", NumberCell(1e21), "1e+21"},
		{"time of day", TimeOfDayCell(time.Date(1899, 12, 30, 14, 5, 0, 0, time.UTC)), "14:05:00"},
		{"date", DateCell(ts), "2024-03-09 14:05:00"},
		{"true", BoolCell(true), "True"},
		{"false", BoolCell(false), "False"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.cell.String())
		})
	}

	assert.Equal(t, "09/03/2024", DateCell(ts).Format("02/01/2006"))
	assert.Equal(t, "14:05:00", TimeOfDayCell(ts).Format("02/01/2006"))
}

func TestNewPadsShortRows(t *testing.T) {
	tbl, err := New([]string{"a", "b", "c"}, [][]Cell{
		{TextCell("x")},
		{TextCell("y"), NumberCell(1), BoolCell(true)},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, 3, tbl.NumColumns())
	assert.Equal(t, Empty, tbl.Cell(0, 2).Kind)
	assert.Equal(t, Bool, tbl.Cell(1, 2).Kind)
}

func TestNewRejectsWideRows(t *testing.T) {
	_, err := New([]string{"a"}, [][]Cell{{TextCell("x"), TextCell("y")}})
	assert.Error(t, err)
}

func TestMapProducesIndependentTable(t *testing.T) {
	src, err := New([]string{"name", "n"}, [][]Cell{
		{TextCell("alice"), NumberCell(1)},
		{TextCell("bob"), NumberCell(2)},
	})
	require.NoError(t, err)

	out := src.Map(func(c Cell) Cell {
		if c.IsText() {
			return TextCell(c.Str + "!")
		}
		return c
	})

	assert.Equal(t, src.Columns(), out.Columns())
	assert.Equal(t, src.NumRows(), out.NumRows())
	assert.Equal(t, "alice!", out.Cell(0, 0).Str)
	assert.Equal(t, NumberCell(2), out.Cell(1, 1))
	assert.Equal(t, "alice", src.Cell(0, 0).Str, "source table must not change")

	cols := out.Columns()
	cols[0] = "mutated"
	assert.Equal(t, "name", out.Columns()[0])
}
