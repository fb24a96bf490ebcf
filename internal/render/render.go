// Package render draws waste charts as PNG images on top of go-chart's raster renderer.
package render

import (
	"fmt"

	"wastechart/internal/core"
)

const (
	DefaultWidth  = 1400
	DefaultHeight = 800
)

// Renderer produces chart images of a fixed size.
type Renderer struct {
	width  int
	height int
}

func New(width, height int) *Renderer {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	// Parse the font up front so concurrent renders only read it.
	_, _ = defaultFont()
	return &Renderer{width: width, height: height}
}

// Records shapes raw records for kind and renders the matching chart.
func (r *Renderer) Records(kind core.RenderKind, records []core.WasteRecord, p core.Period) ([]byte, error) {
	switch kind {
	case core.KindBar:
		return r.Bar(core.ShapeByDepartment(records), p)
	case core.KindPie:
		return r.DepartmentPie(core.ShapeByDepartment(records), p)
	case core.KindPieCategories:
		rows, err := core.ShapeByCategory(records)
		if err != nil {
			return nil, err
		}
		return r.CategoryPie(rows, p)
	}
	return nil, fmt.Errorf("unknown chart kind %q", kind)
}

func weightsOf(rows []core.ShapedRow) []float64 {
	ws := make([]float64, len(rows))
	for i, row := range rows {
		ws[i] = row.TotalWeight
	}
	return ws
}

func labelsOf(rows []core.ShapedRow) []string {
	ls := make([]string, len(rows))
	for i, row := range rows {
		ls[i] = row.Name
	}
	return ls
}
