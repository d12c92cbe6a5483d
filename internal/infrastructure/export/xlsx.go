// Package export renders report tables as downloadable workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ContentTypeXLSX is the media type of a workbook written by WriteXLSX
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet is one worksheet: a bold header row followed by data rows
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]any
}

// WriteXLSX writes the sheets, in order, as a single workbook to w.
// At least one sheet is required; the first one is active on open.
func WriteXLSX(w io.Writer, sheets []Sheet) (err error) {
	if len(sheets) == 0 {
		return fmt.Errorf("export: no sheets to write")
	}

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("export: close workbook: %w", cerr)
		}
	}()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("export: header style: %w", err)
	}

	for i, sheet := range sheets {
		if i == 0 {
			// NewFile always starts with Sheet1
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return fmt.Errorf("export: rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("export: add sheet %q: %w", sheet.Name, err)
		}
		if err := writeSheet(f, sheet, bold); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet Sheet, headerStyle int) error {
	header := make([]any, len(sheet.Header))
	for i, h := range sheet.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet.Name, "A1", &header); err != nil {
		return fmt.Errorf("export: %s header: %w", sheet.Name, err)
	}
	if err := f.SetRowStyle(sheet.Name, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("export: %s header style: %w", sheet.Name, err)
	}

	for i, row := range sheet.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet.Name, cell, &values); err != nil {
			return fmt.Errorf("export: %s row %d: %w", sheet.Name, i+1, err)
		}
	}

	if n := len(sheet.Header); n > 0 {
		last, err := excelize.ColumnNumberToName(n)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet.Name, "A", last, 18); err != nil {
			return fmt.Errorf("export: %s column width: %w", sheet.Name, err)
		}
	}
	return nil
}
