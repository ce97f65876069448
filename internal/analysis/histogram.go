package analysis

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/axonsim/internal/geom"
	"github.com/san-kum/axonsim/internal/grid"
)

// Bin is one histogram bar: its center and normalized frequency.
type Bin struct {
	Center float64
	Freq   float64
}

type Histogram struct {
	Min, Max float64
	Bins     []Bin
	// Count is the number of values that fell inside [Min, Max].
	Count int
}

// BinValues counts vals in n equal bins over [lo, hi] and divides each count by
// norm. Values outside the range are dropped; hi itself falls in the last
// bin.
func BinValues(vals []float64, lo, hi float64, n int, norm float64) Histogram {
	h := Histogram{Min: lo, Max: hi}
	if n <= 0 || !(hi > lo) {
		return h
	}
	in := make([]float64, 0, len(vals))
	for _, v := range vals {
		if v >= lo && v <= hi {
			in = append(in, v)
		}
	}
	slices.Sort(in)
	h.Count = len(in)

	dividers := floats.Span(make([]float64, n+1), lo, hi)
	dividers[n] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, in, nil)

	width := (hi - lo) / float64(n)
	h.Bins = make([]Bin, n)
	for i, c := range counts {
		f := 0.0
		if norm > 0 {
			f = c / norm
		}
		h.Bins[i] = Bin{Center: lo + (float64(i)+0.5)*width, Freq: f}
	}
	return h
}

// AngleHistogram bins crossing angles over [0, 180] degrees, widened to
// cover any value outside it, normalized by the number of angles.
func AngleHistogram(angles []float64, n int) Histogram {
	lo, hi := 0.0, 180.0
	if len(angles) > 0 {
		lo = math.Min(lo, floats.Min(angles))
		hi = math.Max(hi, floats.Max(angles))
	}
	return BinValues(angles, lo, hi, n, float64(len(angles)))
}

// EnergyHistogram bins energies over [0, max], normalized by the number
// of samples.
func EnergyHistogram(energies []float64, max float64, n int) Histogram {
	return BinValues(energies, 0, max, n, float64(len(energies)))
}

// PairDistanceHistogram bins the in-plane distance between every pair of
// cross-section points over [0, 2*radius], normalized by the number of
// points.
func PairDistanceHistogram(pts []r3.Vec, radius float64, n int) Histogram {
	d := make([]float64, 0, len(pts)*(len(pts)-1)/2)
	for i := range pts {
		for j := i + 1; j < len(pts); j++ {
			d = append(d, planar(pts[i], pts[j]))
		}
	}
	return BinValues(d, 0, 2*radius, n, float64(len(pts)))
}

// NeighborDistanceHistogram bins the in-plane distances between points
// closer than within, normalized by the number of such distances. Each
// close pair is counted from both ends and coincident points are ignored.
func NeighborDistanceHistogram(pts []r3.Vec, radius, within float64, n int) Histogram {
	flat := make([]r3.Vec, len(pts))
	for i, p := range pts {
		flat[i] = r3.Vec{X: p.X, Y: p.Y}
	}
	b := grid.Bounds{
		Min: r3.Vec{X: -radius, Y: -radius, Z: -1},
		Max: r3.Vec{X: radius, Y: radius, Z: 1},
	}
	bucket := 2 * within
	g := grid.New[int](b, r3.Vec{X: bucket, Y: bucket, Z: 2})
	for i, p := range flat {
		g.Insert(i, p)
	}

	var d []float64
	for _, p := range flat {
		g.Block(g.CellOf(p), func(c grid.Cell) bool {
			for _, j := range g.Bucket(c) {
				dist := geom.Distance(p, flat[j])
				if dist < within && dist > 1e-5 {
					d = append(d, dist)
				}
			}
			return true
		})
	}
	return BinValues(d, 0, within, n, float64(len(d)))
}

func planar(a, b r3.Vec) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Summary returns the mean and standard deviation of vals.
func Summary(vals []float64) (mean, std float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	if len(vals) == 1 {
		return vals[0], 0
	}
	return stat.MeanStdDev(vals, nil)
}

// WriteTo writes one "center freq" line per bin.
func (h Histogram) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for _, b := range h.Bins {
		k, _ := fmt.Fprintf(bw, "%s %s\n",
			strconv.FormatFloat(b.Center, 'g', -1, 64),
			strconv.FormatFloat(b.Freq, 'g', -1, 64))
		n += int64(k)
	}
	if err := bw.Flush(); err != nil {
		return n, fmt.Errorf("analysis: write histogram: %w", err)
	}
	return n, nil
}

// Freqs returns the bin frequencies in order.
func (h Histogram) Freqs() []float64 {
	out := make([]float64, len(h.Bins))
	for i, b := range h.Bins {
		out[i] = b.Freq
	}
	return out
}
