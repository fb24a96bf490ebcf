package render

import (
	"fmt"
	"math"

	"wastechart/internal/core"
)

var (
	pieTitleStyle    = textStyle{size: 16, color: colorBlack}
	wedgeLabelStyle  = textStyle{size: 10, color: colorBlack}
	legendTitleStyle = textStyle{size: 11, color: colorBlack}
	legendStyle      = textStyle{size: 10, color: colorBlack}
)

// legendPlacement anchors the legend relative to the pie's bounding box,
// in fractions of that box (x to the right, y up from the bottom).
type legendPlacement struct {
	title   string
	anchorX float64
	anchorY float64
	// centerY anchors the legend's vertical middle instead of its top edge.
	centerY bool
}

var (
	departmentLegend = legendPlacement{title: "Departemen dan Persentase", anchorX: 1.05, anchorY: 1}
	categoryLegend   = legendPlacement{title: "Jenis Sampah dan Persentase", anchorX: 1.1, anchorY: 0.2, centerY: true}
)

// DepartmentPie renders the share of each department's weight.
func (r *Renderer) DepartmentPie(rows []core.ShapedRow, p core.Period) ([]byte, error) {
	if len(rows) == 0 {
		return nil, &core.ShapeError{Reason: core.NoDepartmentDataMessage}
	}
	return r.pie(rows, titleText("Distribusi Sampah per Departemen", p), departmentLegend)
}

// CategoryPie renders the share of each aggregated waste category.
func (r *Renderer) CategoryPie(rows []core.ShapedRow, p core.Period) ([]byte, error) {
	if len(rows) == 0 {
		return nil, &core.ShapeError{Reason: core.NoCategoryDataMessage}
	}
	return r.pie(rows, titleText("Distribusi Jenis Sampah", p), categoryLegend)
}

func (r *Renderer) pie(rows []core.ShapedRow, title string, legend legendPlacement) ([]byte, error) {
	weights := weightsOf(rows)
	var sum float64
	for _, w := range weights {
		if w < 0 {
			return nil, &core.ShapeError{Reason: "wedge sizes must be non-negative"}
		}
		sum += w
	}
	if sum <= 0 {
		return nil, &core.ShapeError{Reason: "total weight is zero, nothing to plot"}
	}

	width, height := r.width, r.height
	c, err := newCanvas(width, height)
	if err != nil {
		return nil, err
	}

	_, titleH := c.measure("Hg", pieTitleStyle)
	c.text(title, width/2, titleH/2+18, alignCenter, pieTitleStyle)

	radius := math.Min(float64(height)*0.32, float64(width)*0.2)
	cx := int(float64(width) * 0.34)
	cy := int(float64(height)*0.5) + titleH/2 + 10

	// Bounding box of pie plus wedge labels.
	boxLeft := float64(cx) - labelScaleX*radius
	boxRight := float64(cx) + labelScaleX*radius
	boxTop := float64(cy) - 1.25*radius
	boxBottom := float64(cy) + 1.25*radius

	wedges := Wedges(weights, PieStartAngle)
	for i, w := range wedges {
		c.wedge(cx, cy, radius, w.Theta1, w.Theta2, set3Color(i), colorBlack)
	}

	labels := labelsOf(rows)
	for i, w := range wedges {
		ax, ay := w.Anchor()
		lx, ly := w.LabelPoint()
		px, py := toPixel(cx, cy, radius, ax, ay)
		tx, ty := toPixel(cx, cy, radius, lx, ly)
		c.line(px, py, tx, ty, colorBlack, 1, nil)

		tw, th := c.measure(labels[i], wedgeLabelStyle)
		c.fillRect(tx-tw/2-2, ty-th/2-2, tx+tw/2+2, ty+th/2+2, colorWhite)
		c.text(labels[i], tx, ty, alignCenter, wedgeLabelStyle)
	}

	entries := make([]string, len(rows))
	for i, w := range wedges {
		entries[i] = fmt.Sprintf("%s (%s)", labels[i], w.Percent)
	}
	boxW := boxRight - boxLeft
	boxH := boxBottom - boxTop
	lx := int(boxLeft + legend.anchorX*boxW)
	ly := int(boxBottom - legend.anchorY*boxH)
	c.legend(entries, legend, lx, ly)

	return c.png()
}

// legend draws a framed list of color swatches and entries starting at x;
// y is the top edge or the vertical middle depending on the placement.
func (c *canvas) legend(entries []string, placement legendPlacement, x, y int) {
	const (
		pad    = 10
		swatch = 14
		gap    = 8
	)

	titleW, titleH := c.measure(placement.title, legendTitleStyle)
	rowH := 22
	if avail := (c.height - 40 - titleH) / max(len(entries), 1); avail < rowH {
		rowH = max(avail, 8)
	}

	textW := 0
	for _, e := range entries {
		if w, _ := c.measure(e, legendStyle); w > textW {
			textW = w
		}
	}
	w := max(titleW, swatch+gap+textW) + 2*pad
	h := pad + titleH + pad + rowH*len(entries) + pad/2

	top := y
	if placement.centerY {
		top = y - h/2
	}
	// Keep the frame on the canvas.
	x = min(x, c.width-w-5)
	top = max(5, min(top, c.height-h-5))

	c.box(x, top, x+w, top+h, colorWhite, colorFrame, 1)
	c.text(placement.title, x+w/2, top+pad+titleH/2, alignCenter, legendTitleStyle)

	rowTop := top + pad + titleH + pad
	for i, e := range entries {
		mid := rowTop + i*rowH + rowH/2
		c.box(x+pad, mid-swatch/2, x+pad+swatch, mid+swatch/2, set3Color(i), colorBlack, 1)
		c.text(e, x+pad+swatch+gap, mid, alignLeft, legendStyle)
	}
}

func toPixel(cx, cy int, radius, x, y float64) (int, int) {
	return cx + int(math.Round(x*radius)), cy - int(math.Round(y*radius))
}

func titleText(prefix string, p core.Period) string {
	return fmt.Sprintf("%s (%d/%d)", prefix, p.Month, p.Year)
}
