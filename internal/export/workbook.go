package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ContentTypeXLSX is the media type of Workbook output.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Workbook renders the tables as an XLSX file with one sheet per view and a
// bold header row on each.
func Workbook(t Tables) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	sheets := []struct {
		name   string
		values [][]any
		widths [2]float64
	}{
		{DepartmentSheet, t.DepartmentValues(), [2]float64{32, 18}},
		{CategorySheet, t.CategoryValues(), [2]float64{32, 18}},
		{SummarySheet, t.SummaryValues(), [2]float64{34, 16}},
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return nil, fmt.Errorf("create sheet %q: %w", s.name, err)
		}
		if err := writeSheet(f, s.name, s.values, bold); err != nil {
			return nil, err
		}
		if err := f.SetColWidth(s.name, "A", "A", s.widths[0]); err != nil {
			return nil, fmt.Errorf("column width: %w", err)
		}
		if err := f.SetColWidth(s.name, "B", "B", s.widths[1]); err != nil {
			return nil, fmt.Errorf("column width: %w", err)
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, values [][]any, headerStyle int) error {
	for i, row := range values {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(values) == 0 {
		return nil
	}
	end, err := excelize.CoordinatesToCellName(len(values[0]), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", end, headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}
	return nil
}
