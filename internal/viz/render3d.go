package viz

import (
	"math"
	"sort"

	"github.com/san-kum/axonsim/internal/axon"
	"gonum.org/v1/gonum/spatial/r3"
)

// Camera manages 3D projection to a 2D plane.
type Camera struct {
	Distance   float64
	Near       float64
	RotX, RotY float64
	Zoom       float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 6, Near: 0.1, RotX: -math.Pi / 3, Zoom: 1.0}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// RotatePoint rotates a point around the camera's axes.
func (c *Camera) RotatePoint(p r3.Vec) r3.Vec {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	return p
}

// Project converts normalized world coordinates to sub-pixel coordinates.
// Returns x, y, depth, and visibility.
func (c *Camera) Project(p r3.Vec, sw, sh int) (int, int, float64, bool) {
	rot := r3.Scale(c.Zoom, c.RotatePoint(p))
	if rot.Z >= c.Distance-c.Near {
		return 0, 0, 0, false
	}
	scale := c.Distance / (c.Distance - rot.Z)
	pScale := float64(min(sw, sh)) / 3.0
	sx := int(rot.X*scale*pScale) + sw/2
	sy := int(-rot.Y*scale*pScale) + sh/2
	return sx, sy, rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End r3.Vec
}

// Wireframe holds edges in a unit box centered on the origin.
type Wireframe struct{ Edges []Edge }

func (w *Wireframe) Add(s, e r3.Vec) { w.Edges = append(w.Edges, Edge{s, e}) }

type projected struct {
	x1, y1, x2, y2 int
	depth          float64
}

// Render3D draws the wireframe to the canvas using a simple painter's algorithm.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	cw, ch := c.Dots()
	proj := make([]projected, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, cw, ch)
		x2, y2, d2, v2 := cam.Project(e.End, cw, ch)
		if v1 || v2 {
			proj = append(proj, projected{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		c.DrawLine(e.x1, e.y1, e.x2, e.y2)
	}
}

// AxonWireframe builds the filament segments, the links and the cylinder
// outline of a, scaled so the tube radius maps to 1 and the grown height
// spans [-1, 1].
func AxonWireframe(a *axon.Axon, rings int) *Wireframe {
	p := a.Params()
	top := Extent(a)
	norm := func(v r3.Vec) r3.Vec {
		return r3.Vec{X: v.X / p.Radius, Y: v.Y / p.Radius, Z: 2*v.Z/top - 1}
	}
	w := &Wireframe{}
	for _, f := range a.Filaments() {
		for i := 1; i < f.Len(); i++ {
			w.Add(norm(f.Point(i-1)), norm(f.Point(i)))
		}
		for i := 0; i < f.Len(); i++ {
			self := f.Ref(i)
			for _, l := range f.Node(i).Links() {
				if self.Less(l) {
					w.Add(norm(f.Point(i)), norm(a.Point(l)))
				}
			}
		}
	}
	const sides = 24
	for k := 0; k < rings; k++ {
		z := -1.0
		if rings > 1 {
			z += 2 * float64(k) / float64(rings-1)
		}
		for s := 0; s < sides; s++ {
			a0 := 2 * math.Pi * float64(s) / sides
			a1 := 2 * math.Pi * float64(s+1) / sides
			w.Add(r3.Vec{X: math.Cos(a0), Y: math.Sin(a0), Z: z}, r3.Vec{X: math.Cos(a1), Y: math.Sin(a1), Z: z})
		}
	}
	return w
}

// Extent returns the height of the highest node, never less than the tube
// diameter.
func Extent(a *axon.Axon) float64 {
	top := 2 * a.Params().Radius
	for _, f := range a.Filaments() {
		for _, q := range f.Points() {
			top = math.Max(top, q.Z)
		}
	}
	return top
}
