package dataprocessing

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	apperrors "molidata/internal/errors"
)

// Sheet is the raw content of one worksheet. Numeric and date cells hold
// their stored value, so dates arrive as Excel serial numbers.
type Sheet struct {
	Name     string
	Rows     [][]string
	Date1904 bool
}

// ReadSheet opens an .xlsx workbook and returns the raw rows of the named
// sheet, or of the first sheet when name is empty.
func ReadSheet(filePath, name string) (*Sheet, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open workbook", err).
			WithContext("path", filePath)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewParsingError("workbook has no sheets", nil).
			WithContext("path", filePath)
	}

	sheetName := name
	if sheetName == "" {
		sheetName = sheets[0]
	} else if idx, _ := f.GetSheetIndex(sheetName); idx < 0 {
		return nil, apperrors.NewParsingError(fmt.Sprintf("sheet %q not found", sheetName), nil).
			WithContext("path", filePath).
			WithContext("available_sheets", sheets)
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read rows", err).
			WithContext("path", filePath).
			WithContext("sheet", sheetName)
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	slog.Debug("Read worksheet",
		slog.String("path", filePath),
		slog.String("sheet_name", sheetName),
		slog.Int("total_rows", len(rows)))

	return &Sheet{Name: sheetName, Rows: rows, Date1904: date1904}, nil
}
