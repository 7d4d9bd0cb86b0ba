// Package spreadsheet loads the first worksheet of an .xlsx workbook into a
// table.Table, keeping the stored type of every cell.
package spreadsheet

import (
	"fmt"
	"io"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/haytac/emoji-scrub/internal/table"
)

// Options selects what to read.
type Options struct {
	// Sheet names the worksheet; empty means the first one.
	Sheet string
}

// LoadFile opens the workbook at path and loads one worksheet.
func LoadFile(path string, opts Options) (*table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer closeWorkbook(f, path)

	t, err := load(f, opts)
	if err != nil {
		return nil, fmt.Errorf("read workbook %s: %w", path, err)
	}
	return t, nil
}

// Load reads a workbook from r.
func Load(r io.Reader, opts Options) (*table.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer closeWorkbook(f, "")

	return load(f, opts)
}

func closeWorkbook(f *excelize.File, path string) {
	if err := f.Close(); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Failed to close workbook")
	}
}

type sheetReader struct {
	f        *excelize.File
	sheet    string
	date1904 bool
	dateFmt  map[int]bool
}

func load(f *excelize.File, opts Options) (*table.Table, error) {
	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrEmptySheet
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q: %w", sheet, ErrEmptySheet)
	}

	sr := &sheetReader{f: f, sheet: sheet, dateFmt: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		sr.date1904 = *props.Date1904
	}

	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}

	header, err := sr.row(0, rows[0], width)
	if err != nil {
		return nil, err
	}
	columns := columnNames(header)

	body := make([][]table.Cell, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		cells, err := sr.row(i, rows[i], width)
		if err != nil {
			return nil, err
		}
		body = append(body, cells)
	}

	log.Debug().Str("sheet", sheet).Int("rows", len(body)).Int("columns", width).Msg("Worksheet loaded")
	return table.New(columns, body)
}

// row types the raw values of worksheet row i (0-based) and pads to width.
func (sr *sheetReader) row(i int, raw []string, width int) ([]table.Cell, error) {
	cells := make([]table.Cell, width)
	for j, v := range raw {
		if v == "" {
			continue
		}
		c, err := sr.cell(j+1, i+1, v)
		if err != nil {
			return nil, err
		}
		cells[j] = c
	}
	return cells, nil
}

func (sr *sheetReader) cell(col, row int, raw string) (table.Cell, error) {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return table.Cell{}, err
	}
	kind, err := sr.f.GetCellType(sr.sheet, ref)
	if err != nil {
		return table.Cell{}, fmt.Errorf("sheet %q cell %s: %w", sr.sheet, ref, err)
	}
	if kind == excelize.CellTypeError {
		return table.Cell{}, &CellError{Sheet: sr.sheet, Cell: ref, Value: raw}
	}

	dateFmt := false
	if kind == excelize.CellTypeUnset || kind == excelize.CellTypeNumber {
		if dateFmt, err = sr.isDateCell(ref); err != nil {
			return table.Cell{}, fmt.Errorf("sheet %q cell %s: %w", sr.sheet, ref, err)
		}
	}

	c, err := classify(kind, raw, dateFmt, sr.date1904)
	if err != nil {
		return table.Cell{}, fmt.Errorf("sheet %q cell %s: %w", sr.sheet, ref, err)
	}
	return c, nil
}

func (sr *sheetReader) isDateCell(ref string) (bool, error) {
	styleID, err := sr.f.GetCellStyle(sr.sheet, ref)
	if err != nil {
		return false, err
	}
	if v, ok := sr.dateFmt[styleID]; ok {
		return v, nil
	}
	style, err := sr.f.GetStyle(styleID)
	if err != nil {
		return false, err
	}
	isDate := isDateNumFmt(style.NumFmt, style.CustomNumFmt)
	sr.dateFmt[styleID] = isDate
	return isDate, nil
}

// columnNames derives unique names from the header row: blanks become
// "Unnamed: <index>" and repeats get ".1", ".2", ... suffixes.
func columnNames(header []table.Cell) []string {
	names := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, c := range header {
		name := c.String()
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		base := name
		for n := seen[base]; ; n++ {
			if _, taken := seen[name]; !taken {
				seen[base] = n
				break
			}
			name = base + "." + strconv.Itoa(n+1)
		}
		seen[name] = 0
		names[i] = name
	}
	return names
}

// FileLoader loads workbooks from disk with fixed Options.
type FileLoader struct {
	Options Options
}

// Load implements interfaces.TableLoader.
func (l FileLoader) Load(path string) (*table.Table, error) {
	return LoadFile(path, l.Options)
}
