package export

import (
	"bytes"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/axonsim/internal/axon"
	"github.com/san-kum/axonsim/internal/random"
	"github.com/san-kum/axonsim/internal/viz"
)

func linkedPair(t *testing.T) *axon.Axon {
	t.Helper()
	p := axon.DefaultParams()
	p.Length = 10
	p.BirthProb = 0
	p.LinkFormProb = 1
	p.FormLinks = false
	a, err := axon.New(p, random.New(1))
	if err != nil {
		t.Fatal(err)
	}
	a.AddFilament(r3.Vec{X: -0.04})
	a.AddFilament(r3.Vec{X: 0.04})
	a.Grow(0, r3.Vec{Z: 0.1})
	a.Grow(1, r3.Vec{Z: 0.1})
	a.Link(a.Filament(1).Ref(1), a.Filament(0).Ref(1))
	return a
}

func TestWriteScene(t *testing.T) {
	a := linkedPair(t)
	s := SceneOf(a)
	if len(s.Links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(s.Links))
	}

	var buf bytes.Buffer
	if err := WriteScene(&buf, s); err != nil {
		t.Fatalf("WriteScene: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "location <3.5,0,25>") {
		t.Error("missing camera")
	}
	if !strings.Contains(out, "rgbt <1,1,1,.95>") {
		t.Error("missing transparent axon")
	}
	if got := strings.Count(out, "color rgb <0,1,0>"); got != 2 {
		t.Errorf("expected 2 segments, got %d", got)
	}
	if got := strings.Count(out, "sphere {"); got != 1 {
		t.Errorf("expected 1 link sphere, got %d", got)
	}
	if !strings.Contains(out, "<0,0,0.1>, 0.025") {
		t.Errorf("link sphere not at the midpoint:\n%s", out)
	}
}

func TestWritePoints(t *testing.T) {
	var buf bytes.Buffer
	pts := []r3.Vec{{X: 1, Y: 2, Z: 9}, {X: -0.5, Y: 0.25}}
	if err := WritePoints(&buf, pts); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "1 2\n-0.5 0.25\n"; got != want {
		t.Errorf("WritePoints = %q, want %q", got, want)
	}
}

func TestWriteValues(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteValues(&buf, []float64{0, 12.5, 1e-7}); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "0\n12.5\n1e-07\n"; got != want {
		t.Errorf("WriteValues = %q, want %q", got, want)
	}
}

func TestCrossSectionSVG(t *testing.T) {
	pts := []r3.Vec{{X: 0.5}, {Y: -1}, {X: 3}}
	svg := CrossSectionSVG(pts, 2, 200)
	if !strings.HasPrefix(svg, "<?xml") {
		t.Fatal("missing xml header")
	}
	// outline plus the two points inside the axon
	if got := strings.Count(svg, "<circle"); got != 3 {
		t.Errorf("expected 3 circles, got %d", got)
	}
	if CrossSectionSVG(pts, 0, 200) != "" {
		t.Error("expected empty output for zero radius")
	}
}

func TestSeriesToSVG(t *testing.T) {
	if SeriesToSVG([]float64{1}, 100, 50, "#fff") != "" {
		t.Error("expected empty output for a single value")
	}
	svg := SeriesToSVG([]float64{0, 1, 4, 4}, 100, 50, "#ff0000")
	if !strings.Contains(svg, `stroke="#ff0000"`) {
		t.Error("missing stroke color")
	}
	if got := strings.Count(svg, " L"); got != 3 {
		t.Errorf("expected 3 line segments, got %d", got)
	}
}

func TestCanvasToSVG(t *testing.T) {
	if CanvasToSVG(nil, 2, "#00ff00") != "" {
		t.Error("expected empty output for nil canvas")
	}
	c := viz.NewCanvas(4, 2)
	c.Set(0, 0)
	c.Set(3, 7)
	svg := CanvasToSVG(c, 2, "#00ff00")
	if got := strings.Count(svg, "<circle"); got != 2 {
		t.Errorf("expected 2 dots, got %d", got)
	}
}
