package analysis

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

var ErrFormat = errors.New("analysis: malformed line")

// ReadValues parses one number per line. Blank lines are skipped.
func ReadValues(r io.Reader) ([]float64, error) {
	var out []float64
	err := scanFields(r, 1, func(f []float64) { out = append(out, f[0]) })
	return out, err
}

// ReadPoints parses "x y" lines into points in the z = 0 plane.
func ReadPoints(r io.Reader) ([]r3.Vec, error) {
	var out []r3.Vec
	err := scanFields(r, 2, func(f []float64) { out = append(out, r3.Vec{X: f[0], Y: f[1]}) })
	return out, err
}

func scanFields(r io.Reader, n int, fn func([]float64)) error {
	sc := bufio.NewScanner(r)
	vals := make([]float64, n)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < n {
			return fmt.Errorf("%w %d: want %d fields, got %d", ErrFormat, line, n, len(fields))
		}
		for i := range n {
			v, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return fmt.Errorf("%w %d: %v", ErrFormat, line, err)
			}
			vals[i] = v
		}
		fn(vals)
	}
	return sc.Err()
}
