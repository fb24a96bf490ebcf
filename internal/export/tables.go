// Package export turns a month of waste records into tabular exports: an XLSX
// workbook and a Google Sheets tab.
package export

import (
	"fmt"

	"wastechart/internal/core"
)

const (
	DepartmentSheet = "Departemen"
	CategorySheet   = "Jenis Sampah"
	SummarySheet    = "Ringkasan"

	weightHeader = "Total Berat (kg)"
)

// Tables holds the shaped views of one month of records.
type Tables struct {
	Period      core.Period
	Departments []core.ShapedRow
	Categories  []core.ShapedRow
	RecordCount int
}

// BuildTables shapes records into the department and category views.
// A month without category entries yields an empty category table.
func BuildTables(records []core.WasteRecord, p core.Period) Tables {
	t := Tables{
		Period:      p,
		Departments: core.ShapeByDepartment(records),
		RecordCount: len(records),
	}
	if rows, err := core.ShapeByCategory(records); err == nil {
		t.Categories = rows
	}
	return t
}

// DepartmentValues is the department table with its header row.
func (t Tables) DepartmentValues() [][]any {
	return rowsWithHeader(DepartmentSheet, t.Departments)
}

// CategoryValues is the category table with its header row.
func (t Tables) CategoryValues() [][]any {
	return rowsWithHeader(CategorySheet, t.Categories)
}

func (t Tables) SummaryValues() [][]any {
	return [][]any{
		{"Keterangan", "Nilai"},
		{"Periode", t.PeriodLabel()},
		{"Jumlah Data", t.RecordCount},
		{"Jumlah Departemen", len(t.Departments)},
		{"Jumlah Jenis Sampah", len(t.Categories)},
		{"Total Berat Departemen (kg)", core.TotalWeight(t.Departments)},
		{"Total Berat Jenis Sampah (kg)", core.TotalWeight(t.Categories)},
	}
}

// PeriodLabel formats the period as "<year>-<mm>".
func (t Tables) PeriodLabel() string {
	return fmt.Sprintf("%d-%02d", t.Period.Year, t.Period.Month)
}

func rowsWithHeader(label string, rows []core.ShapedRow) [][]any {
	out := make([][]any, 0, len(rows)+1)
	out = append(out, []any{label, weightHeader})
	for _, r := range rows {
		out = append(out, []any{r.Name, r.TotalWeight})
	}
	return out
}
