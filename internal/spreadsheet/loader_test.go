package spreadsheet

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/haytac/emoji-scrub/internal/table"
)

// writeWorkbook saves a workbook whose first sheet holds rows, starting at A1.
func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, r := range rows {
		ref, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", ref, &r))
	}
	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

// errorCellSheet is a worksheet whose B2 holds a cached formula error.
const errorCellSheet = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>` +
	`<row r="1"><c r="A1" t="inlineStr"><is><t>name</t></is></c><c r="B1" t="inlineStr"><is><t>ratio</t></is></c></row>` +
	`<row r="2"><c r="A2" t="inlineStr"><is><t>Alice 🎉</t></is></c><c r="B2" t="e"><f>1/0</f><v>#DIV/0!</v></c></row>` +
	`</sheetData></worksheet>`

// writeSheetXML saves a fresh workbook with its first worksheet part replaced by sheetXML.
func writeSheetXML(t *testing.T, sheetXML string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	src, err := f.WriteToBuffer()
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(src.Bytes()), int64(src.Len()))
	require.NoError(t, err)
	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	for _, entry := range zr.File {
		w, err := zw.Create(entry.Name)
		require.NoError(t, err)
		if entry.Name == "xl/worksheets/sheet1.xml" {
			_, err = io.WriteString(w, sheetXML)
			require.NoError(t, err)
			continue
		}
		rc, err := entry.Open()
		require.NoError(t, err)
		_, err = io.Copy(w, rc)
		rc.Close()
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, os.WriteFile(path, out.Bytes(), 0o644))
	return path
}

func TestLoadFileTypesCells(t *testing.T) {
	when := time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)
	path := writeWorkbook(t, [][]interface{}{
		{"name", "note", "score", "joined", "active"},
		{"Alice", "Great job! 🎉", 42, when, true},
		{"Bob", nil, 3.5, nil, false},
	})

	tbl, err := LoadFile(path, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "note", "score", "joined", "active"}, tbl.Columns())
	require.Equal(t, 2, tbl.NumRows())

	assert.Equal(t, table.TextCell("Alice"), tbl.Cell(0, 0))
	assert.Equal(t, table.TextCell("Great job! 🎉"), tbl.Cell(0, 1))
	assert.Equal(t, table.NumberCell(42), tbl.Cell(0, 2))
	require.Equal(t, table.Date, tbl.Cell(0, 3).Kind)
	assert.WithinDuration(t, when, tbl.Cell(0, 3).Time, time.Millisecond)
	assert.Equal(t, "2024-03-09 14:05:00", tbl.Cell(0, 3).String())
	assert.Equal(t, table.BoolCell(true), tbl.Cell(0, 4))

	assert.Equal(t, table.Empty, tbl.Cell(1, 1).Kind)
	assert.Equal(t, table.NumberCell(3.5), tbl.Cell(1, 2))
	assert.Equal(t, table.Empty, tbl.Cell(1, 3).Kind)
	assert.Equal(t, table.BoolCell(false), tbl.Cell(1, 4))
}

func TestLoadPadsRaggedRowsAndNamesColumns(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"id", "", "id"},
		{1},
		{2, "x", "y", "extra"},
	})

	tbl, err := LoadFile(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "Unnamed: 1", "id.1", "Unnamed: 3"}, tbl.Columns())
	assert.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, table.Empty, tbl.Cell(0, 3).Kind)
	assert.Equal(t, table.TextCell("extra"), tbl.Cell(1, 3))
}

func TestLoadFromReaderAndNamedSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	_, err := f.NewSheet("Notes")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "first"))
	require.NoError(t, f.SetCellValue("Notes", "A1", "note"))
	require.NoError(t, f.SetCellValue("Notes", "A2", "hello 👋"))

	var buf bytes.Buffer
	_, err = f.WriteTo(&buf)
	require.NoError(t, err)

	tbl, err := Load(bytes.NewReader(buf.Bytes()), Options{Sheet: "Notes"})
	require.NoError(t, err)
	assert.Equal(t, []string{"note"}, tbl.Columns())
	assert.Equal(t, "hello 👋", tbl.Cell(0, 0).Str)

	_, err = Load(bytes.NewReader(buf.Bytes()), Options{Sheet: "Missing"})
	var notExist ErrSheetNotExist
	assert.True(t, errors.As(err, &notExist), "got %v", err)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.xlsx"), Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist), "got %v", err)

	empty := writeWorkbook(t, nil)
	_, err = LoadFile(empty, Options{})
	assert.ErrorIs(t, err, ErrEmptySheet)

	_, err = Load(bytes.NewReader([]byte("not a zip")), Options{})
	assert.Error(t, err)
}

func TestLoadFileRejectsErrorCells(t *testing.T) {
	path := writeSheetXML(t, errorCellSheet)

	tbl, err := LoadFile(path, Options{})
	require.Error(t, err)
	assert.Nil(t, tbl)

	var cellErr *CellError
	require.True(t, errors.As(err, &cellErr), "got %v", err)
	assert.Equal(t, "Sheet1", cellErr.Sheet)
	assert.Equal(t, "B2", cellErr.Cell)
	assert.Equal(t, "#DIV/0!", cellErr.Value)
	assert.Contains(t, err.Error(), path)
}

func TestLoadFileTimeOfDay(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "start"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", 14*time.Hour+5*time.Minute))
	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(path))

	tbl, err := LoadFile(path, Options{})
	require.NoError(t, err)
	c := tbl.Cell(0, 0)
	require.Equal(t, table.Date, c.Kind)
	assert.True(t, c.TimeOnly)
	assert.Equal(t, "14:05:00", c.String())
}

func TestClassify(t *testing.T) {
	c, err := classify(excelize.CellTypeUnset, "45292", true, false)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01 00:00:00", c.String())

	c, err = classify(excelize.CellTypeUnset, "1", true, true)
	require.NoError(t, err)
	assert.Equal(t, 1904, c.Time.Year())

	c, err = classify(excelize.CellTypeUnset, "0.586805555555556", true, false)
	require.NoError(t, err)
	assert.True(t, c.TimeOnly)
	assert.Equal(t, "14:05:00", c.String())

	c, err = classify(excelize.CellTypeUnset, "0", true, true)
	require.NoError(t, err)
	assert.Equal(t, "00:00:00", c.String())

	c, err = classify(excelize.CellTypeNumber, "1e3", false, false)
	require.NoError(t, err)
	assert.Equal(t, table.NumberCell(1000), c)

	c, err = classify(excelize.CellTypeDate, "2023-12-24T18:00:00Z", false, false)
	require.NoError(t, err)
	assert.Equal(t, "2023-12-24 18:00:00", c.String())

	c, err = classify(excelize.CellTypeFormula, "computed 🎉", false, false)
	require.NoError(t, err)
	assert.Equal(t, table.TextCell("computed 🎉"), c)

	_, err = classify(excelize.CellTypeError, "#DIV/0!", false, false)
	assert.Error(t, err)

	_, err = classify(excelize.CellTypeBool, "maybe", false, false)
	assert.Error(t, err)
}

func TestIsDateNumFmt(t *testing.T) {
	custom := func(s string) *string { return &s }

	assert.True(t, isDateNumFmt(14, nil))
	assert.True(t, isDateNumFmt(22, nil))
	assert.True(t, isDateNumFmt(46, nil))
	assert.False(t, isDateNumFmt(0, nil))
	assert.False(t, isDateNumFmt(2, nil))

	assert.True(t, isDateNumFmt(164, custom("yyyy-mm-dd")))
	assert.True(t, isDateNumFmt(164, custom("[h]:mm:ss")))
	assert.True(t, isDateNumFmt(164, custom("[$-409]d-mmm-yy;@")))
	assert.False(t, isDateNumFmt(164, custom("#,##0.00")))
	assert.False(t, isDateNumFmt(164, custom(`0.00 "days"`)))
	assert.False(t, isDateNumFmt(164, custom("[Red]0.00;[Blue]-0.00")))
}

func TestCellErrorMessage(t *testing.T) {
	err := &CellError{Sheet: "Sheet1", Cell: "B2", Value: "#N/A"}
	assert.Equal(t, `sheet "Sheet1" cell B2: error value "#N/A"`, err.Error())
}
