package sim

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/san-kum/axonsim/internal/axon"
	"github.com/san-kum/axonsim/internal/export"
)

// SceneWriter writes a POV-Ray scene every Every steps as
// Dir/scene<step>.pov.
type SceneWriter struct {
	Dir   string
	Every int
}

func (w *SceneWriter) OnStep(step int, a *axon.Axon) error {
	if w.Every <= 0 || step%w.Every != 0 {
		return nil
	}
	return writeFile(filepath.Join(w.Dir, fmt.Sprintf("scene%d.pov", step)), func(f io.Writer) error {
		return export.WriteScene(f, export.SceneOf(a))
	})
}

// SectionWriter writes, every Every steps and for each height, the
// filament crossing points as Dir/section_<z>_<step>.dat and the crossing
// angles as Dir/angles_<z>_<step>.dat.
type SectionWriter struct {
	Dir     string
	Every   int
	Heights []float64
}

func (w *SectionWriter) OnStep(step int, a *axon.Axon) error {
	if w.Every <= 0 || step%w.Every != 0 {
		return nil
	}
	for _, z := range w.Heights {
		pts := a.CrossSection(z)
		err := writeFile(filepath.Join(w.Dir, SectionFile(z, step)), func(f io.Writer) error {
			return export.WritePoints(f, pts)
		})
		if err != nil {
			return err
		}
		angles := a.CrossAngles(z)
		err = writeFile(filepath.Join(w.Dir, AnglesFile(z, step)), func(f io.Writer) error {
			return export.WriteValues(f, angles)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func SectionFile(z float64, step int) string { return fmt.Sprintf("section_%g_%d.dat", z, step) }
func AnglesFile(z float64, step int) string  { return fmt.Sprintf("angles_%g_%d.dat", z, step) }

func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
