package axon

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/axonsim/internal/geom"
)

// CrossSection returns where each filament reaching above z crosses the
// plane at height z.
func (a *Axon) CrossSection(z float64) []r3.Vec {
	var pts []r3.Vec
	for _, f := range a.filaments {
		if p, _, ok := f.Crossing(z); ok {
			pts = append(pts, p)
		}
	}
	return pts
}

// CrossAngles returns, for each filament crossing height z, the angle in
// degrees between the crossing segment and the axon axis.
func (a *Axon) CrossAngles(z float64) []float64 {
	var out []float64
	for _, f := range a.filaments {
		if _, d, ok := f.Crossing(z); ok {
			out = append(out, geom.AngleDeg(d, geom.ZAxis))
		}
	}
	return out
}
