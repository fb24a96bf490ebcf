package core

import "sort"

// ShapeByDepartment keeps records that carry a department and projects them
// to (department name, record weight), preserving input order.
func ShapeByDepartment(records []WasteRecord) []ShapedRow {
	rows := make([]ShapedRow, 0, len(records))
	for _, r := range records {
		if r.Department == nil {
			continue
		}
		rows = append(rows, ShapedRow{Name: r.Department.Name, TotalWeight: r.TotalWeight})
	}
	return rows
}

// ShapeByCategory flattens every record's category list and sums the weights
// per category name. Rows are ordered by name.
func ShapeByCategory(records []WasteRecord) ([]ShapedRow, error) {
	totals := make(map[string]float64)
	seen := 0
	for _, r := range records {
		for _, c := range r.Categories {
			if c.Category == nil {
				continue
			}
			totals[c.Category.Name] += c.TotalWeight
			seen++
		}
	}
	if seen == 0 {
		return nil, &ShapeError{Reason: NoCategoryDataMessage}
	}

	rows := make([]ShapedRow, 0, len(totals))
	for name, w := range totals {
		rows = append(rows, ShapedRow{Name: name, TotalWeight: w})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows, nil
}

// TotalWeight sums the weights of the given rows.
func TotalWeight(rows []ShapedRow) float64 {
	var sum float64
	for _, r := range rows {
		sum += r.TotalWeight
	}
	return sum
}
