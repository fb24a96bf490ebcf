package render

import (
	"bytes"
	"fmt"
	"math"
	"sync"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

type align int

const (
	alignLeft align = iota
	alignCenter
	alignRight
)

type textStyle struct {
	size  float64
	color drawing.Color
}

var (
	colorBlack    = drawing.ColorBlack
	colorWhite    = drawing.ColorWhite
	colorDarkBlue = drawing.Color{R: 0, G: 0, B: 139, A: 255}
	colorGrid     = drawing.Color{R: 176, G: 176, B: 176, A: 178}
	colorFrame    = drawing.Color{R: 204, G: 204, B: 204, A: 255}
)

// defaultFont loads go-chart's bundled font once. go-chart's own lazy
// loader is not safe for concurrent first use.
var defaultFont = sync.OnceValues(chart.GetDefaultFont)

// canvas is a thin drawing layer over a go-chart raster renderer.
type canvas struct {
	r      chart.Renderer
	width  int
	height int
}

func newCanvas(width, height int) (*canvas, error) {
	r, err := chart.PNG(width, height)
	if err != nil {
		return nil, fmt.Errorf("create png renderer: %w", err)
	}
	font, err := defaultFont()
	if err != nil {
		return nil, fmt.Errorf("load default font: %w", err)
	}
	r.SetFont(font)

	c := &canvas{r: r, width: width, height: height}
	c.fillRect(0, 0, width, height, colorWhite)
	return c, nil
}

func (c *canvas) png() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.r.Save(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *canvas) rectPath(x0, y0, x1, y1 int) {
	c.r.MoveTo(x0, y0)
	c.r.LineTo(x1, y0)
	c.r.LineTo(x1, y1)
	c.r.LineTo(x0, y1)
	c.r.LineTo(x0, y0)
	c.r.Close()
}

func (c *canvas) fillRect(x0, y0, x1, y1 int, fill drawing.Color) {
	c.r.SetFillColor(fill)
	c.rectPath(x0, y0, x1, y1)
	c.r.Fill()
}

// box fills a rectangle and outlines it.
func (c *canvas) box(x0, y0, x1, y1 int, fill, edge drawing.Color, edgeWidth float64) {
	c.r.SetFillColor(fill)
	c.r.SetStrokeColor(edge)
	c.r.SetStrokeWidth(edgeWidth)
	c.r.SetStrokeDashArray(nil)
	c.rectPath(x0, y0, x1, y1)
	c.r.FillStroke()
}

func (c *canvas) line(x0, y0, x1, y1 int, color drawing.Color, width float64, dash []float64) {
	c.r.SetStrokeColor(color)
	c.r.SetStrokeWidth(width)
	c.r.SetStrokeDashArray(dash)
	c.r.MoveTo(x0, y0)
	c.r.LineTo(x1, y1)
	c.r.Stroke()
	c.r.SetStrokeDashArray(nil)
}

// wedge draws a pie slice between theta1 and theta2 (degrees, counter-clockwise).
func (c *canvas) wedge(cx, cy int, radius, theta1, theta2 float64, fill, edge drawing.Color) {
	start := -theta2 * math.Pi / 180
	delta := (theta2 - theta1) * math.Pi / 180

	c.r.SetFillColor(fill)
	c.r.SetStrokeColor(edge)
	c.r.SetStrokeWidth(1)
	c.r.SetStrokeDashArray(nil)
	c.r.MoveTo(cx, cy)
	c.r.ArcTo(cx, cy, radius, radius, start, delta)
	c.r.LineTo(cx, cy)
	c.r.Close()
	c.r.FillStroke()
}

func (c *canvas) setText(s textStyle) {
	c.r.SetFontSize(s.size)
	c.r.SetFontColor(s.color)
}

func (c *canvas) measure(body string, s textStyle) (w, h int) {
	c.setText(s)
	b := c.r.MeasureText(body)
	return b.Width(), b.Height()
}

// text draws body with its vertical middle on y, aligned horizontally at x.
func (c *canvas) text(body string, x, y int, a align, s textStyle) {
	w, h := c.measure(body, s)
	switch a {
	case alignCenter:
		x -= w / 2
	case alignRight:
		x -= w
	}
	c.r.Text(body, x, y+h/2)
}

// rotatedText draws body rotated by degrees counter-clockwise so that its
// end (alignRight) or start (alignLeft) touches (x, y).
func (c *canvas) rotatedText(body string, x, y int, degrees float64, a align, s textStyle) {
	w, h := c.measure(body, s)
	rad := degrees * math.Pi / 180
	dx, dy := math.Cos(rad), -math.Sin(rad)

	// Shift along the text direction, then drop half a line height so the
	// glyphs straddle the anchor.
	shift := 0.0
	switch a {
	case alignCenter:
		shift = float64(w) / 2
	case alignRight:
		shift = float64(w)
	}
	ox := float64(x) - dx*shift - dy*float64(h)/2
	oy := float64(y) - dy*shift + dx*float64(h)/2

	c.r.SetTextRotation(-rad)
	c.r.Text(body, int(math.Round(ox)), int(math.Round(oy)))
	c.r.ClearTextRotation()
}
