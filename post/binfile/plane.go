package binfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// SnapshotFileName builds the solver's zero-padded snapshot file name, e.g.
// plane_003_bl2.bin.
func SnapshotFileName(dir, kind string, id, block int) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%03d_bl%d.bin", kind, id, block))
}

// Read2D reads a stream of frames from a 2-D snapshot/statistics file. Each
// frame holds nvar consecutive n1×n2 planes; frames repeat until EOF. The
// result is indexed [variable][frame]. A missing file is reported by the
// error; callers decide whether that is fatal.
func Read2D(path string, n1, n2, nvar int, order ByteOrder) ([][]*mat.Dense, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening 2-D snapshot file: %w", err)
	}
	defer file.Close()
	r := bufio.NewReader(file)

	vars := make([][]*mat.Dense, nvar)
	for {
		frame := make([]*mat.Dense, nvar)
		complete := true
		for v := 0; v < nvar; v++ {
			m, err := readPlane(r, n1, n2, order)
			if err != nil {
				if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
					complete = false
					break
				}
				return nil, fmt.Errorf("reading variable %d: %w", v+1, err)
			}
			frame[v] = m
		}
		if !complete {
			break
		}
		for v := 0; v < nvar; v++ {
			vars[v] = append(vars[v], frame[v])
		}
	}

	if len(vars[0]) == 0 {
		logrus.Warnf("File %s holds no complete frame (%d vars of %dx%d)", path, nvar, n1, n2)
	}
	return vars, nil
}

// ReadLineBlock reads a stream of line frames (nvar vectors of n1 values
// per frame), indexed [variable][frame].
func ReadLineBlock(path string, n1, nvar int, order ByteOrder) ([][][]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening line snapshot file: %w", err)
	}
	defer file.Close()
	r := bufio.NewReader(file)

	vars := make([][][]float64, nvar)
	for {
		frame := make([][]float64, nvar)
		complete := true
		for v := 0; v < nvar; v++ {
			vec, err := readFloat64s(r, n1, order)
			if err != nil {
				if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
					complete = false
					break
				}
				return nil, fmt.Errorf("reading variable %d: %w", v+1, err)
			}
			frame[v] = vec
		}
		if !complete {
			break
		}
		for v := 0; v < nvar; v++ {
			vars[v] = append(vars[v], frame[v])
		}
	}
	return vars, nil
}

// ReadPointsBlock reads a stream of point frames (nvar scalars per frame)
// into per-variable time series.
func ReadPointsBlock(path string, nvar int, order ByteOrder) ([][]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening point snapshot file: %w", err)
	}
	defer file.Close()
	r := bufio.NewReader(file)

	vars := make([][]float64, nvar)
	for {
		vals, err := readFloat64s(r, nvar, order)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return nil, err
		}
		for v := 0; v < nvar; v++ {
			vars[v] = append(vars[v], vals[v])
		}
	}
	return vars, nil
}
