package export

import (
	"bufio"
	"fmt"
	"io"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/axonsim/internal/axon"
)

// Camera places the POV-Ray camera and its single light.
type Camera struct {
	Location r3.Vec
	LookAt   r3.Vec
	Light    r3.Vec
}

// DefaultCamera looks at the axon from the side, a quarter of the way
// into a 100 micron axon.
var DefaultCamera = Camera{
	Location: r3.Vec{X: 3.5, Z: 25},
	LookAt:   r3.Vec{Z: 25},
	Light:    r3.Vec{X: 10, Y: 5, Z: 25},
}

// Scene is a renderable snapshot of an axon.
type Scene struct {
	Camera         Camera
	Radius         float64
	Length         float64
	FilamentRadius float64
	LinkRadius     float64
	Filaments      [][]r3.Vec
	// Links holds each linked pair once.
	Links [][2]r3.Vec
}

// SceneOf snapshots a.
func SceneOf(a *axon.Axon) Scene {
	p := a.Params()
	s := Scene{
		Camera:         DefaultCamera,
		Radius:         p.Radius,
		Length:         p.Length,
		FilamentRadius: p.FilamentRadius,
		LinkRadius:     p.LinkLength,
		Filaments:      make([][]r3.Vec, 0, a.NumFilaments()),
	}
	for _, f := range a.Filaments() {
		s.Filaments = append(s.Filaments, f.Points())
		for i := 0; i < f.Len(); i++ {
			self := f.Ref(i)
			for _, l := range f.Node(i).Links() {
				if self.Less(l) {
					s.Links = append(s.Links, [2]r3.Vec{f.Point(i), a.Point(l)})
				}
			}
		}
	}
	return s
}

// WriteScene renders s as a POV-Ray scene: the axon as a transparent
// cylinder, each filament segment as a green cylinder and each link as a
// red sphere at the midpoint of its nodes.
func WriteScene(w io.Writer, s Scene) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "camera {\n\tlocation %s\n\tlook_at %s\n}\n", pov(s.Camera.Location), pov(s.Camera.LookAt))
	fmt.Fprintf(bw, "light_source {\n\t%s\n\tcolor rgb <1,1,1>\n}\n", pov(s.Camera.Light))
	fmt.Fprintf(bw, "cylinder {\n\t<0,0,0>, <0,0,%g>, %g\n\tpigment { color rgbt <1,1,1,.95> }\n}\n", s.Length, s.Radius)

	for _, pts := range s.Filaments {
		for j := 1; j < len(pts); j++ {
			fmt.Fprintf(bw, "cylinder {\n\t%s, %s, %g\n\tpigment { color rgb <0,1,0> }\n}\n",
				pov(pts[j-1]), pov(pts[j]), s.FilamentRadius)
		}
	}
	for _, l := range s.Links {
		mid := r3.Scale(0.5, r3.Add(l[0], l[1]))
		fmt.Fprintf(bw, "sphere {\n\t%s, %g\n\tpigment { color rgb <1,0,0> }\n}\n", pov(mid), s.LinkRadius)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("export: write scene: %w", err)
	}
	return nil
}

func pov(v r3.Vec) string {
	return fmt.Sprintf("<%g,%g,%g>", v.X, v.Y, v.Z)
}
