package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// PieStartAngle is where the first wedge begins, in degrees counter-clockwise from +x.
	PieStartAngle = 140.0

	labelScaleX = 1.3
	labelScaleY = 1.1
)

// Percentages returns each weight's share of the total as "NN.N%".
func Percentages(weights []float64) []string {
	var sum float64
	for _, w := range weights {
		sum += w
	}
	out := make([]string, len(weights))
	for i, w := range weights {
		out[i] = fmt.Sprintf("%.1f%%", w/sum*100)
	}
	return out
}

// Wedge is one pie slice in degrees, laid out counter-clockwise.
type Wedge struct {
	Theta1  float64
	Theta2  float64
	Percent string
}

// Mid is the bisector of the wedge in degrees.
func (w Wedge) Mid() float64 {
	return (w.Theta2-w.Theta1)/2 + w.Theta1
}

// Anchor is the point on the unit circle at the wedge bisector.
func (w Wedge) Anchor() (x, y float64) {
	rad := w.Mid() * math.Pi / 180
	return math.Cos(rad), math.Sin(rad)
}

// LabelPoint is where the wedge's label text sits, relative to a unit radius.
func (w Wedge) LabelPoint() (x, y float64) {
	x, y = w.Anchor()
	return x * labelScaleX, y * labelScaleY
}

// Wedges splits 360 degrees proportionally to weights, starting at startAngle.
func Wedges(weights []float64, startAngle float64) []Wedge {
	var sum float64
	for _, w := range weights {
		sum += w
	}
	pct := Percentages(weights)

	wedges := make([]Wedge, len(weights))
	theta := startAngle
	var cum float64
	for i, w := range weights {
		cum += w
		next := startAngle + 360*cum/sum
		wedges[i] = Wedge{Theta1: theta, Theta2: next, Percent: pct[i]}
		theta = next
	}
	return wedges
}

// niceStep picks a 1/2/2.5/5 x 10^n tick step giving roughly target ticks up to maxValue.
func niceStep(maxValue float64, target int) float64 {
	if maxValue <= 0 || target < 1 {
		return 1
	}
	raw := maxValue / float64(target)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, m := range []float64{1, 2, 2.5, 5, 10} {
		if raw <= m*mag {
			return m * mag
		}
	}
	return 10 * mag
}

// axisTicks returns tick values from zero through the first multiple of the step >= maxValue.
func axisTicks(maxValue float64, target int) []float64 {
	step := niceStep(maxValue, target)
	ticks := []float64{0}
	for v := step; ; v += step {
		ticks = append(ticks, roundTo(v, step))
		if v >= maxValue {
			break
		}
	}
	return ticks
}

func roundTo(v, step float64) float64 {
	// Trim float accumulation noise to the step's precision.
	digits := 0
	if step < 1 {
		digits = int(math.Ceil(-math.Log10(step))) + 1
	}
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}

// captionWeight prints a weight the way a float column does: always with a
// fractional part, so 40 becomes "40.0".
func captionWeight(w float64) string {
	s := strconv.FormatFloat(w, 'f', -1, 64)
	if !strings.ContainsAny(s, ".nI") {
		s += ".0"
	}
	return s
}

// formatWeight prints a weight without trailing zeros.
func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}
