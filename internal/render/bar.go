package render

import (
	"math"

	"wastechart/internal/core"
)

var (
	barTitleStyle = textStyle{size: 18, color: colorDarkBlue}
	axisTitle     = textStyle{size: 14, color: colorBlack}
	tickStyle     = textStyle{size: 11, color: colorBlack}
	valueStyle    = textStyle{size: 10, color: colorBlack}
)

// Bar renders one bar per department with its weight printed above it.
// Repeated department names share a bar showing their mean weight.
func (r *Renderer) Bar(rows []core.ShapedRow, p core.Period) ([]byte, error) {
	if len(rows) == 0 {
		return nil, &core.ShapeError{Reason: core.NoDepartmentDataMessage}
	}
	rows = barRows(rows)

	width, height := r.width, r.height*3/4
	c, err := newCanvas(width, height)
	if err != nil {
		return nil, err
	}

	maxWeight := 0.0
	for _, row := range rows {
		maxWeight = math.Max(maxWeight, row.TotalWeight)
	}
	ticks := axisTicks(maxWeight*1.08, 6)
	top := ticks[len(ticks)-1]

	// Margins grow with the widest rotated x label and y tick label.
	maxLabel := 0
	for _, row := range rows {
		if w, _ := c.measure(row.Name, tickStyle); w > maxLabel {
			maxLabel = w
		}
	}
	maxTick := 0
	for _, t := range ticks {
		if w, _ := c.measure(formatWeight(t), tickStyle); w > maxTick {
			maxTick = w
		}
	}
	_, titleH := c.measure("Hg", barTitleStyle)
	_, axisH := c.measure("Hg", axisTitle)

	bottom := int(float64(maxLabel)*math.Sin(math.Pi/4)) + 24 + axisH + 16
	if bottom > height/2 {
		bottom = height / 2
	}
	left := maxTick + axisH + 40
	x0, x1 := left, width-30
	y0, y1 := titleH+50, height-bottom
	plotH := float64(y1 - y0)

	yOf := func(v float64) int {
		return y1 - int(math.Round(v/top*plotH))
	}

	c.text(titleText("Total Berat Sampah per Departemen", p), width/2, titleH/2+18, alignCenter, barTitleStyle)

	for _, t := range ticks {
		y := yOf(t)
		c.line(x0, y, x1, y, colorGrid, 1, []float64{6, 4})
		c.line(x0-5, y, x0, y, colorBlack, 1, nil)
		c.text(formatWeight(t), x0-8, y, alignRight, tickStyle)
	}

	slot := float64(x1-x0) / float64(len(rows))
	barW := slot * 0.8
	colors := cubehelix(len(rows))
	for i, row := range rows {
		center := float64(x0) + slot*(float64(i)+0.5)
		bx0 := int(math.Round(center - barW/2))
		bx1 := int(math.Round(center + barW/2))
		by := yOf(math.Max(row.TotalWeight, 0))
		c.box(bx0, by, bx1, y1, colors[i], colorBlack, 1)

		_, vh := c.measure("0", valueStyle)
		c.text(captionWeight(row.TotalWeight)+" kg", int(center), by-vh-2, alignCenter, valueStyle)

		cx := int(math.Round(center))
		c.line(cx, y1, cx, y1+5, colorBlack, 1, nil)
		c.rotatedText(row.Name, cx, y1+12, 45, alignRight, tickStyle)
	}

	c.line(x0, y0, x0, y1, colorBlack, 1.2, nil)
	c.line(x0, y1, x1, y1, colorBlack, 1.2, nil)

	c.text("Departemen", (x0+x1)/2, height-axisH/2-8, alignCenter, axisTitle)
	c.rotatedText("Berat Sampah (kg)", axisH/2+8, (y0+y1)/2, 90, alignCenter, axisTitle)

	return c.png()
}

// barRows merges rows sharing a name into one row holding their mean
// weight. Names keep the order of their first appearance.
func barRows(rows []core.ShapedRow) []core.ShapedRow {
	index := make(map[string]int, len(rows))
	counts := make([]int, 0, len(rows))
	merged := make([]core.ShapedRow, 0, len(rows))
	for _, row := range rows {
		i, ok := index[row.Name]
		if !ok {
			index[row.Name] = len(merged)
			merged = append(merged, row)
			counts = append(counts, 1)
			continue
		}
		merged[i].TotalWeight += row.TotalWeight
		counts[i]++
	}
	for i := range merged {
		merged[i].TotalWeight /= float64(counts[i])
	}
	return merged
}
