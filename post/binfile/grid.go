package binfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/mbpost/mbpost/post"
)

// GridConfig selects how the grid files are laid out on disk.
type GridConfig struct {
	Dir           string
	Order         ByteOrder
	NewGrid       bool // grid_bl<n>_ngh<g>.bin with ghost points vs legacy grid_bl<n>.bin
	Full3D        bool // x/y/z stored as full volumes; the first interior spanwise slice is kept
	GhostOverride int  // -1 to take ngh from SimInfo
}

func gridFileName(cfg GridConfig, block, ngh int) string {
	if cfg.NewGrid {
		return filepath.Join(cfg.Dir, fmt.Sprintf("grid_bl%d_ngh%d.bin", block, ngh))
	}
	return filepath.Join(cfg.Dir, fmt.Sprintf("grid_bl%d.bin", block))
}

// ReadGrid loads every block's coordinates, trimming ngh ghost points per
// side for new-style files. Cartesian grids (is_curv false) store 1-D
// coordinate vectors; these are expanded to nx×ny planes so downstream code
// sees one layout.
func ReadGrid(cfg GridConfig, info *post.SimInfo) (post.GridStore, error) {
	ngh := info.Ngh
	if cfg.GhostOverride >= 0 {
		ngh = cfg.GhostOverride
	}
	if !cfg.NewGrid {
		ngh = 0
	}

	store := make(post.GridStore, info.NBlocks)
	for block := 1; block <= info.NBlocks; block++ {
		dims := info.Dims[block]
		bg, err := readGridBlock(cfg, info, block, dims, ngh)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", block, err)
		}
		store[block] = bg
	}
	logrus.Infof("Done reading grid for %d block(s)", info.NBlocks)
	return store, nil
}

func readGridBlock(cfg GridConfig, info *post.SimInfo, block int, dims post.BlockDims, ngh int) (*post.BlockGrid, error) {
	ngi := dims.Nx + 2*ngh
	ngj := dims.Ny + 2*ngh
	ngk := 1
	if dims.Nz > 1 {
		ngk = dims.Nz + 2*ngh
	}

	path := gridFileName(cfg, block, ngh)
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening grid file: %w", err)
	}
	defer file.Close()
	r := bufio.NewReader(file)

	if !info.IsCurv {
		// Cartesian: three coordinate vectors.
		xv, err := readFloat64s(r, ngi, cfg.Order)
		if err != nil {
			return nil, fmt.Errorf("reading x vector: %w", err)
		}
		yv, err := readFloat64s(r, ngj, cfg.Order)
		if err != nil {
			return nil, fmt.Errorf("reading y vector: %w", err)
		}
		zv, err := readFloat64s(r, ngk, cfg.Order)
		if err != nil {
			return nil, fmt.Errorf("reading z vector: %w", err)
		}
		xv = xv[ngh : ngh+dims.Nx]
		yv = yv[ngh : ngh+dims.Ny]
		if ngk > 1 {
			zv = zv[ngh : ngh+dims.Nz]
		}
		x := mat.NewDense(dims.Nx, dims.Ny, nil)
		y := mat.NewDense(dims.Nx, dims.Ny, nil)
		for i := 0; i < dims.Nx; i++ {
			for j := 0; j < dims.Ny; j++ {
				x.Set(i, j, xv[i])
				y.Set(i, j, yv[j])
			}
		}
		return &post.BlockGrid{X: x, Y: y, Z: zv}, nil
	}

	// Fully 3D curvilinear: x, y and z each stored as an ngi×ngj×ngk
	// volume.
	if cfg.Full3D {
		return readGridBlock3D(r, cfg, dims, ngh, ngi, ngj, ngk)
	}

	// 2D curvilinear (possibly extruded): x and y planes, z vector.
	xp, err := readPlane(r, ngi, ngj, cfg.Order)
	if err != nil {
		return nil, fmt.Errorf("reading x plane: %w", err)
	}
	yp, err := readPlane(r, ngi, ngj, cfg.Order)
	if err != nil {
		return nil, fmt.Errorf("reading y plane: %w", err)
	}
	z := []float64{0}
	if ngk > 1 {
		zv, err := readFloat64s(r, ngk, cfg.Order)
		if err != nil {
			return nil, fmt.Errorf("reading z vector: %w", err)
		}
		z = zv[ngh : ngh+dims.Nz]
	}

	x, err := trimGhost(xp, ngh, dims.Nx, dims.Ny)
	if err != nil {
		return nil, err
	}
	y, err := trimGhost(yp, ngh, dims.Nx, dims.Ny)
	if err != nil {
		return nil, err
	}
	return &post.BlockGrid{X: x, Y: y, Z: z}, nil
}

// readGridBlock3D reads the fully 3D grid variant: x, y and z are each an
// ngi×ngj×ngk Fortran-ordered volume, ghost-trimmed on all three axes.
// Post-processing is planar, so the first interior spanwise slice becomes
// the block's coordinate planes and the z line at the wall corner becomes
// the spanwise vector.
func readGridBlock3D(r io.Reader, cfg GridConfig, dims post.BlockDims, ngh, ngi, ngj, ngk int) (*post.BlockGrid, error) {
	vols := make([][]float64, 3)
	for v, name := range []string{"x", "y", "z"} {
		vol, err := readFloat64s(r, ngi*ngj*ngk, cfg.Order)
		if err != nil {
			return nil, fmt.Errorf("reading %s volume: %w", name, err)
		}
		vols[v] = vol
	}
	at := func(vol []float64, i, j, k int) float64 {
		return vol[i+ngi*(j+ngj*k)]
	}

	kgh := 0
	if ngk > 1 {
		kgh = ngh
	}
	x := mat.NewDense(dims.Nx, dims.Ny, nil)
	y := mat.NewDense(dims.Nx, dims.Ny, nil)
	for i := 0; i < dims.Nx; i++ {
		for j := 0; j < dims.Ny; j++ {
			x.Set(i, j, at(vols[0], i+ngh, j+ngh, kgh))
			y.Set(i, j, at(vols[1], i+ngh, j+ngh, kgh))
		}
	}

	nz := dims.Nz
	if nz < 1 {
		nz = 1
	}
	z := make([]float64, nz)
	for k := 0; k < nz; k++ {
		z[k] = at(vols[2], ngh, ngh, k+kgh)
	}
	return &post.BlockGrid{X: x, Y: y, Z: z}, nil
}
