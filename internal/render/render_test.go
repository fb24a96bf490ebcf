package render

import (
	"bytes"
	"errors"
	"math"
	"sync"
	"testing"

	"wastechart/internal/core"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func testPeriod() core.Period { return core.Period{Month: 9, Year: 2024} }

func sampleRows() []core.ShapedRow {
	return []core.ShapedRow{
		{Name: "Keuangan", TotalWeight: 12.5},
		{Name: "Produksi", TotalWeight: 40},
		{Name: "Gudang", TotalWeight: 7.25},
	}
}

func TestPercentages(t *testing.T) {
	got := Percentages([]float64{10, 20, 70})
	want := []string{"10.0%", "20.0%", "70.0%"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Percentages()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWedges(t *testing.T) {
	wedges := Wedges([]float64{1, 1, 2}, PieStartAngle)
	if len(wedges) != 3 {
		t.Fatalf("len(Wedges) = %d, want 3", len(wedges))
	}

	if wedges[0].Theta1 != 140 || wedges[0].Theta2 != 230 {
		t.Errorf("first wedge = [%v, %v], want [140, 230]", wedges[0].Theta1, wedges[0].Theta2)
	}
	if wedges[2].Theta2 != 500 {
		t.Errorf("last wedge ends at %v, want 500", wedges[2].Theta2)
	}
	for i := 1; i < len(wedges); i++ {
		if wedges[i].Theta1 != wedges[i-1].Theta2 {
			t.Errorf("wedge %d starts at %v, previous ends at %v", i, wedges[i].Theta1, wedges[i-1].Theta2)
		}
	}
	if wedges[2].Percent != "50.0%" {
		t.Errorf("wedges[2].Percent = %q, want 50.0%%", wedges[2].Percent)
	}
}

func TestWedgeLabelPoint(t *testing.T) {
	w := Wedge{Theta1: 0, Theta2: 180}
	if w.Mid() != 90 {
		t.Fatalf("Mid() = %v, want 90", w.Mid())
	}
	ax, ay := w.Anchor()
	if math.Abs(ax) > 1e-9 || math.Abs(ay-1) > 1e-9 {
		t.Errorf("Anchor() = (%v, %v), want (0, 1)", ax, ay)
	}
	lx, ly := w.LabelPoint()
	if math.Abs(lx) > 1e-9 || math.Abs(ly-1.1) > 1e-9 {
		t.Errorf("LabelPoint() = (%v, %v), want (0, 1.1)", lx, ly)
	}

	w = Wedge{Theta1: -90, Theta2: 90}
	lx, ly = w.LabelPoint()
	if math.Abs(lx-1.3) > 1e-9 || math.Abs(ly) > 1e-9 {
		t.Errorf("LabelPoint() = (%v, %v), want (1.3, 0)", lx, ly)
	}
}

func TestAxisTicks(t *testing.T) {
	tests := []struct {
		max  float64
		want []float64
	}{
		{max: 10, want: []float64{0, 2, 4, 6, 8, 10}},
		{max: 43.2, want: []float64{0, 10, 20, 30, 40, 50}},
		{max: 0.9, want: []float64{0, 0.2, 0.4, 0.6, 0.8, 1}},
	}
	for _, tt := range tests {
		got := axisTicks(tt.max, 6)
		if len(got) != len(tt.want) {
			t.Errorf("axisTicks(%v) = %v, want %v", tt.max, got, tt.want)
			continue
		}
		for i := range got {
			if math.Abs(got[i]-tt.want[i]) > 1e-9 {
				t.Errorf("axisTicks(%v) = %v, want %v", tt.max, got, tt.want)
				break
			}
		}
	}
}

func TestFormatWeight(t *testing.T) {
	if got := formatWeight(12.5); got != "12.5" {
		t.Errorf("formatWeight(12.5) = %q", got)
	}
	if got := formatWeight(40); got != "40" {
		t.Errorf("formatWeight(40) = %q", got)
	}
}

func TestCaptionWeight(t *testing.T) {
	tests := map[float64]string{
		40:    "40.0",
		12.5:  "12.5",
		0:     "0.0",
		7.25:  "7.25",
		-3:    "-3.0",
		100.1: "100.1",
	}
	for in, want := range tests {
		if got := captionWeight(in); got != want {
			t.Errorf("captionWeight(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestBarRowsMergesDepartments(t *testing.T) {
	rows := []core.ShapedRow{
		{Name: "Dapur", TotalWeight: 12.5},
		{Name: "Gudang", TotalWeight: 40},
		{Name: "Dapur", TotalWeight: 30},
	}

	got := barRows(rows)
	if len(got) != 2 {
		t.Fatalf("got %d bars, want 2: %+v", len(got), got)
	}
	want := []core.ShapedRow{
		{Name: "Dapur", TotalWeight: 21.25},
		{Name: "Gudang", TotalWeight: 40},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bar %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if rows[0].TotalWeight != 12.5 {
		t.Error("barRows must not modify its input")
	}

	img, err := New(800, 500).Bar(rows, testPeriod())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(img, pngMagic) {
		t.Error("output is not a PNG")
	}
}

func TestConcurrentRenders(t *testing.T) {
	r := New(400, 300)
	p := testPeriod()

	var wg sync.WaitGroup
	errs := make(chan error, 12)
	for i := 0; i < 4; i++ {
		wg.Add(3)
		go func() { defer wg.Done(); _, err := r.Bar(sampleRows(), p); errs <- err }()
		go func() { defer wg.Done(); _, err := r.DepartmentPie(sampleRows(), p); errs <- err }()
		go func() { defer wg.Done(); _, err := r.CategoryPie(sampleRows(), p); errs <- err }()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Errorf("concurrent render: %v", err)
		}
	}
}

func TestCubehelixDistinct(t *testing.T) {
	colors := cubehelix(4)
	if len(colors) != 4 {
		t.Fatalf("len(cubehelix(4)) = %d", len(colors))
	}
	if colors[0] == colors[3] {
		t.Errorf("first and last bar colors are identical: %v", colors[0])
	}
}

func TestChartsProducePNG(t *testing.T) {
	r := New(800, 500)
	p := testPeriod()

	charts := map[string]func() ([]byte, error){
		"bar":            func() ([]byte, error) { return r.Bar(sampleRows(), p) },
		"department pie": func() ([]byte, error) { return r.DepartmentPie(sampleRows(), p) },
		"category pie":   func() ([]byte, error) { return r.CategoryPie(sampleRows(), p) },
	}
	for name, draw := range charts {
		t.Run(name, func(t *testing.T) {
			img, err := draw()
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if !bytes.HasPrefix(img, pngMagic) {
				t.Errorf("output is not a PNG, starts with %x", img[:min(len(img), 8)])
			}
		})
	}
}

func TestChartsRejectEmptyRows(t *testing.T) {
	r := New(0, 0)
	p := testPeriod()

	tests := []struct {
		name string
		draw func() ([]byte, error)
		want string
	}{
		{"bar", func() ([]byte, error) { return r.Bar(nil, p) }, core.NoDepartmentDataMessage},
		{"department pie", func() ([]byte, error) { return r.DepartmentPie(nil, p) }, core.NoDepartmentDataMessage},
		{"category pie", func() ([]byte, error) { return r.CategoryPie(nil, p) }, core.NoCategoryDataMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.draw()
			var shapeErr *core.ShapeError
			if !errors.As(err, &shapeErr) {
				t.Fatalf("error = %v, want *core.ShapeError", err)
			}
			if shapeErr.Reason != tt.want {
				t.Errorf("reason = %q, want %q", shapeErr.Reason, tt.want)
			}
		})
	}
}

func TestPieRejectsZeroTotal(t *testing.T) {
	r := New(0, 0)
	_, err := r.DepartmentPie([]core.ShapedRow{{Name: "A", TotalWeight: 0}}, testPeriod())
	var shapeErr *core.ShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("error = %v, want *core.ShapeError", err)
	}
}

func TestRecordsUnknownKind(t *testing.T) {
	r := New(0, 0)
	if _, err := r.Records(core.RenderKind("line"), nil, testPeriod()); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestTitleText(t *testing.T) {
	got := titleText("Distribusi Jenis Sampah", testPeriod())
	if got != "Distribusi Jenis Sampah (9/2024)" {
		t.Errorf("titleText() = %q", got)
	}
}
