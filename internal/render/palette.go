package render

import (
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// set3 is the qualitative ColorBrewer Set3 palette used for pie wedges.
var set3 = []drawing.Color{
	drawing.ColorFromHex("8dd3c7"),
	drawing.ColorFromHex("ffffb3"),
	drawing.ColorFromHex("bebada"),
	drawing.ColorFromHex("fb8072"),
	drawing.ColorFromHex("80b1d3"),
	drawing.ColorFromHex("fdb462"),
	drawing.ColorFromHex("b3de69"),
	drawing.ColorFromHex("fccde5"),
	drawing.ColorFromHex("d9d9d9"),
	drawing.ColorFromHex("bc80bd"),
	drawing.ColorFromHex("ccebc5"),
	drawing.ColorFromHex("ffed6f"),
}

func set3Color(i int) drawing.Color {
	return set3[i%len(set3)]
}

// cubehelix samples n colors from Green's cubehelix scheme (start 0.5,
// rotations -1.5, hue 1, gamma 1), skipping the black and white endpoints.
func cubehelix(n int) []drawing.Color {
	colors := make([]drawing.Color, n)
	for i := 0; i < n; i++ {
		x := float64(i+1) / float64(n+1)
		a := x * (1 - x) / 2
		phi := 2 * math.Pi * (0.5/3 - 1.5*x)
		cos, sin := math.Cos(phi), math.Sin(phi)

		r := x + a*(-0.14861*cos+1.78277*sin)
		g := x + a*(-0.29227*cos-0.90649*sin)
		b := x + a*(1.97294*cos)
		colors[i] = drawing.Color{R: channel(r), G: channel(g), B: channel(b), A: 255}
	}
	return colors
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
