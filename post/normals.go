package post

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// WallNormalField holds the outward wall-normal unit vector at every
// streamwise station of the wall-adjacent face (j=0). Consumers assume the
// columns are unit vectors; this is not re-checked.
type WallNormalField struct {
	X []float64 // x-component per streamwise station
	Y []float64 // y-component per streamwise station
}

// Len returns the number of streamwise stations.
func (f *WallNormalField) Len() int { return len(f.X) }

// Tangent returns the wall-tangent unit vector at station i, the 90-degree
// rotation of the wall normal: t = (n_y, -n_x).
func (f *WallNormalField) Tangent(i int) (tx, ty float64) {
	return f.Y[i], -f.X[i]
}

// FlatWallNormals builds the fallback field for a flat wall: normal (0,1)
// at every station. Valid only for mild-curvature walls; callers get a
// warning when this substitutes for a precomputed file.
func FlatWallNormals(nx int) *WallNormalField {
	f := &WallNormalField{X: make([]float64, nx), Y: make([]float64, nx)}
	for i := range f.Y {
		f.Y[i] = 1
	}
	return f
}

func normalFileName(dir string, block int) string {
	return filepath.Join(dir, fmt.Sprintf("normals_bl%d.dat", block))
}

// LoadWallNormals reads the per-block wall-normal files (normals_bl<n>.dat,
// one "index nx ny" row per streamwise station) into the topology. Blocks
// whose file is absent are skipped; HasNormalFile is set when at least one
// file was found, which makes later per-block misses hard errors instead of
// fallback candidates.
func (t *Topology) LoadWallNormals(dir string, info *SimInfo) error {
	found := 0
	for block := 1; block <= info.NBlocks; block++ {
		f, err := readNormalFile(normalFileName(dir, block))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("block %d: reading wall normals: %w", block, err)
		}
		if n := info.Dims[block].Nx; f.Len() != n {
			return fmt.Errorf("block %d: wall-normal file has %d stations, grid has %d", block, f.Len(), n)
		}
		t.Normals[block] = f
		found++
	}
	if found > 0 {
		t.HasNormalFile = true
		logrus.Infof("Loaded wall normals for %d block(s) from %s", found, dir)
	} else {
		logrus.Warnf("No wall-normal files under %s, flat-wall fallback will be used", dir)
	}
	return nil
}

// SaveWallNormals persists the per-block wall-normal fields so a later
// session can reuse them instead of regenerating the fallback.
func (t *Topology) SaveWallNormals(dir string) error {
	for block, f := range t.Normals {
		if f == nil {
			continue
		}
		if err := writeNormalFile(normalFileName(dir, block), f); err != nil {
			return fmt.Errorf("block %d: writing wall normals: %w", block, err)
		}
	}
	return nil
}

func readNormalFile(path string) (*WallNormalField, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	f := &WallNormalField{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("malformed wall-normal row %q", line)
		}
		nx, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing wall-normal x in %q: %w", line, err)
		}
		ny, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing wall-normal y in %q: %w", line, err)
		}
		f.X = append(f.X, nx)
		f.Y = append(f.Y, ny)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return f, nil
}

func writeNormalFile(path string, f *WallNormalField) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for i := range f.X {
		fmt.Fprintf(w, "%d %.17g %.17g\n", i, f.X[i], f.Y[i])
	}
	return w.Flush()
}
