package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"gonum.org/v1/gonum/spatial/r3"
)

// WritePoints writes the x and y of each point, one "x y" pair per line.
func WritePoints(w io.Writer, pts []r3.Vec) error {
	bw := bufio.NewWriter(w)
	for _, p := range pts {
		bw.WriteString(strconv.FormatFloat(p.X, 'g', -1, 64))
		bw.WriteByte(' ')
		bw.WriteString(strconv.FormatFloat(p.Y, 'g', -1, 64))
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("export: write points: %w", err)
	}
	return nil
}

// WriteValues writes one value per line.
func WriteValues(w io.Writer, vals []float64) error {
	bw := bufio.NewWriter(w)
	for _, v := range vals {
		bw.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("export: write values: %w", err)
	}
	return nil
}
