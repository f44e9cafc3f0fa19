// Package binfile reads the solver's binary output: grid files, plane/line/
// point snapshot streams and the time-averaged statistics planes. All files
// are raw float64 streams in Fortran (column-major) ordering.
package binfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ByteOrder selects the file endianness; the solver writes little-endian by
// default.
type ByteOrder = binary.ByteOrder

// readFloat64s reads exactly n float64 values. io.ErrUnexpectedEOF is
// returned for a partial read so stream loops can stop cleanly at a
// truncated trailing frame.
func readFloat64s(r io.Reader, n int, order ByteOrder) ([]float64, error) {
	buf := make([]byte, 8*n)
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	out := make([]float64, n)
	for i := range out {
		bits := order.Uint64(buf[8*i : 8*i+8])
		out[i] = math.Float64frombits(bits)
	}
	return out, nil
}

// readPlane reads one n1×n2 Fortran-ordered plane into a row-major matrix.
func readPlane(r io.Reader, n1, n2 int, order ByteOrder) (*mat.Dense, error) {
	flat, err := readFloat64s(r, n1*n2, order)
	if err != nil {
		return nil, err
	}
	m := mat.NewDense(n1, n2, nil)
	for k, v := range flat {
		m.Set(k%n1, k/n1, v)
	}
	return m, nil
}

func trimGhost(m *mat.Dense, ngh, n1, n2 int) (*mat.Dense, error) {
	r, c := m.Dims()
	if ngh == 0 {
		return m, nil
	}
	if r < n1+2*ngh || c < n2+2*ngh {
		return nil, fmt.Errorf("plane %dx%d too small to trim %d ghost point(s) to %dx%d", r, c, ngh, n1, n2)
	}
	return mat.DenseCopyOf(m.Slice(ngh, ngh+n1, ngh, ngh+n2)), nil
}
