package spreadsheet

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ErrEmptySheet is returned when the worksheet has no header row.
var ErrEmptySheet = errors.New("empty sheet")

// ErrSheetNotExist is re-exported from excelize.
type ErrSheetNotExist = excelize.ErrSheetNotExist

// CellError reports a cell whose stored value cannot become a table cell,
// such as a formula error (#DIV/0!, #N/A).
type CellError struct {
	Sheet string
	Cell  string
	Value string
}

func (e *CellError) Error() string {
	return fmt.Sprintf("sheet %q cell %s: error value %q", e.Sheet, e.Cell, e.Value)
}
