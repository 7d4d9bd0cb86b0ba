package spreadsheet

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/haytac/emoji-scrub/internal/table"
)

// isoDateLayouts covers the values Excel writes for t="d" cells.
var isoDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// classify turns one stored cell into a table cell. dateFormat reports
// whether the cell's number format displays a date or time.
func classify(kind excelize.CellType, raw string, dateFormat, date1904 bool) (table.Cell, error) {
	switch kind {
	case excelize.CellTypeError:
		return table.Cell{}, fmt.Errorf("error value %q", raw)
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		if raw == "" {
			return table.EmptyCell(), nil
		}
		return table.TextCell(raw), nil
	case excelize.CellTypeBool:
		switch strings.TrimSpace(strings.ToLower(raw)) {
		case "1", "true":
			return table.BoolCell(true), nil
		case "0", "false":
			return table.BoolCell(false), nil
		case "":
			return table.EmptyCell(), nil
		}
		return table.Cell{}, fmt.Errorf("invalid boolean %q", raw)
	case excelize.CellTypeDate:
		if raw == "" {
			return table.EmptyCell(), nil
		}
		for _, layout := range isoDateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return table.DateCell(t), nil
			}
		}
		return table.Cell{}, fmt.Errorf("invalid date %q", raw)
	}

	// Numbers usually carry no type attribute at all.
	if raw == "" {
		return table.EmptyCell(), nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return table.TextCell(raw), nil
	}
	if dateFormat && v >= 0 && v < 1 {
		return table.TimeOfDayCell(timeOfDay(v)), nil
	}
	if dateFormat {
		t, err := excelize.ExcelDateToTime(v, date1904)
		if err != nil {
			return table.Cell{}, fmt.Errorf("invalid date serial %q: %w", raw, err)
		}
		return table.DateCell(t.Round(time.Millisecond)), nil
	}
	return table.NumberCell(v), nil
}

// timeOfDay converts a serial below one day into a clock time, rounded to
// the millisecond, on Excel's zero day.
func timeOfDay(serial float64) time.Time {
	ms := time.Duration(math.Round(serial*float64(24*time.Hour/time.Millisecond))) * time.Millisecond
	if ms >= 24*time.Hour {
		ms = 24*time.Hour - time.Millisecond
	}
	return time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC).Add(ms)
}

// isDateNumFmt reports whether a built-in number format id or a custom
// format code renders dates or times.
func isDateNumFmt(id int, custom *string) bool {
	if custom != nil && *custom != "" {
		return isDateFormatCode(*custom)
	}
	switch {
	case id >= 14 && id <= 22,
		id >= 27 && id <= 36,
		id >= 45 && id <= 47,
		id >= 50 && id <= 58:
		return true
	}
	return false
}

func isDateFormatCode(code string) bool {
	// Only the first section matters for positive values.
	var b strings.Builder
	inQuote := false
	for i := 0; i < len(code); i++ {
		ch := code[i]
		switch {
		case inQuote:
			if ch == '"' {
				inQuote = false
			}
		case ch == '"':
			inQuote = true
		case ch == '\\' || ch == '_' || ch == '*':
			i++
		case ch == ';':
			i = len(code)
		case ch == '[':
			end := strings.IndexByte(code[i:], ']')
			if end < 0 {
				i = len(code)
				continue
			}
			inner := strings.ToLower(code[i+1 : i+end])
			if inner != "" && strings.Trim(inner, "hms") == "" {
				return true
			}
			i += end
		default:
			b.WriteByte(ch)
		}
	}
	return strings.ContainsAny(strings.ToLower(b.String()), "ymdhs")
}
