// Package snapshot reshapes raw plane/line/point snapshot frames into
// per-block, per-probe structures keyed by physical coordinates, ready for
// plotting. Pure bookkeeping: no derived math happens here.
package snapshot

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/mbpost/mbpost/post"
	"github.com/mbpost/mbpost/post/binfile"
	"github.com/mbpost/mbpost/post/inifile"
)

// PlaneView is one plane probe: its two in-plane physical coordinate
// fields and the recorded variables, one frame list per variable.
type PlaneView struct {
	X1, X2 *mat.Dense
	Fields map[string][]*mat.Dense
}

// LineView is one line probe: coordinates along the line (constant axes
// collapse to a single value) and per-variable frame lists.
type LineView struct {
	X1, X2, X3 []float64
	Dir        int // 1, 2 or 3: the mesh direction the line runs along
	Fields     map[string][][]float64
}

// PointView is one point probe: its coordinates and per-variable time
// series.
type PointView struct {
	X1, X2, X3 float64
	Fields     map[string][]float64
}

// Preprocessor pairs snapshot definitions from param_blocks.ini with their
// binary frame files.
type Preprocessor struct {
	Dir   string
	Info  *post.SimInfo
	Grid  post.GridStore
	Defs  map[int][]inifile.SnapshotDef
	Order binfile.ByteOrder
}

// Planes reads and reshapes every plane probe, keyed [block][plane id].
// Plane ids count plane-kind definitions per block, 1-based, matching the
// solver's file numbering.
func (p *Preprocessor) Planes() (map[int]map[int]*PlaneView, error) {
	out := make(map[int]map[int]*PlaneView)
	for block := 1; block <= p.Info.NBlocks; block++ {
		out[block] = make(map[int]*PlaneView)
		id := 0
		for _, def := range p.Defs[block] {
			if def.Kind() != inifile.SnapshotPlane {
				continue
			}
			id++
			view, err := p.plane(block, id, def)
			if err != nil {
				return nil, fmt.Errorf("block %d plane %d: %w", block, id, err)
			}
			out[block][id] = view
		}
	}
	logrus.Info("Planes preprocessed for plotting")
	return out, nil
}

func (p *Preprocessor) plane(block, id int, def inifile.SnapshotDef) (*PlaneView, error) {
	dims := p.Info.Dims[block]
	g := p.Grid[block]

	var n1, n2 int
	switch def.Normal() {
	case 1:
		n1, n2 = dims.Ny, dims.Nz
	case 2:
		n1, n2 = dims.Nx, dims.Nz
	case 3:
		n1, n2 = dims.Nx, dims.Ny
	default:
		return nil, fmt.Errorf("bad plane normal %d", def.Normal())
	}

	path := binfile.SnapshotFileName(p.Dir, "plane", id, block)
	vars, err := binfile.Read2D(path, n1, n2, def.NVar, p.Order)
	if err != nil {
		return nil, err
	}

	view := &PlaneView{Fields: make(map[string][]*mat.Dense, def.NVar)}
	view.X1, view.X2 = p.planeCoords(g, dims, def)
	for v, name := range def.Vars {
		view.Fields[name] = vars[v]
	}
	return view, nil
}

// planeCoords builds the two in-plane coordinate fields. The solver writes
// full-extent planes, so coordinates span the whole block in the in-plane
// directions.
func (p *Preprocessor) planeCoords(g *post.BlockGrid, dims post.BlockDims, def inifile.SnapshotDef) (*mat.Dense, *mat.Dense) {
	switch def.Normal() {
	case 1:
		// Constant-i plane spans (y, z).
		i0 := def.I1 - 1
		x1 := mat.NewDense(dims.Ny, dims.Nz, nil)
		x2 := mat.NewDense(dims.Ny, dims.Nz, nil)
		for j := 0; j < dims.Ny; j++ {
			for k := 0; k < dims.Nz; k++ {
				x1.Set(j, k, zAt(g, k))
				x2.Set(j, k, g.Y.At(i0, j))
			}
		}
		return x1, x2
	case 2:
		// Constant-j plane spans (x, z); x plotted along the first axis.
		j0 := def.J1 - 1
		x1 := mat.NewDense(dims.Nx, dims.Nz, nil)
		x2 := mat.NewDense(dims.Nx, dims.Nz, nil)
		for i := 0; i < dims.Nx; i++ {
			for k := 0; k < dims.Nz; k++ {
				x1.Set(i, k, g.X.At(i, j0))
				x2.Set(i, k, zAt(g, k))
			}
		}
		return x1, x2
	default:
		return mat.DenseCopyOf(g.X), mat.DenseCopyOf(g.Y)
	}
}

// Lines reads and reshapes every line probe, keyed [block][line id].
func (p *Preprocessor) Lines() (map[int]map[int]*LineView, error) {
	out := make(map[int]map[int]*LineView)
	for block := 1; block <= p.Info.NBlocks; block++ {
		out[block] = make(map[int]*LineView)
		id := 0
		for _, def := range p.Defs[block] {
			if def.Kind() != inifile.SnapshotLine {
				continue
			}
			id++
			view, err := p.line(block, id, def)
			if err != nil {
				return nil, fmt.Errorf("block %d line %d: %w", block, id, err)
			}
			out[block][id] = view
		}
	}
	logrus.Info("Lines preprocessed for plotting")
	return out, nil
}

func (p *Preprocessor) line(block, id int, def inifile.SnapshotDef) (*LineView, error) {
	g := p.Grid[block]
	dims := p.Info.Dims[block]
	dir := def.Normal()
	i0, j0, k0 := def.I1-1, def.J1-1, def.K1-1

	view := &LineView{Dir: dir, Fields: make(map[string][][]float64, def.NVar)}
	var n1 int
	switch dir {
	case 1:
		n1 = dims.Nx
		for i := 0; i < n1; i++ {
			view.X1 = append(view.X1, g.X.At(i, j0))
			view.X2 = append(view.X2, g.Y.At(i, j0))
		}
		view.X3 = []float64{zAt(g, k0)}
	case 2:
		n1 = dims.Ny
		for j := 0; j < n1; j++ {
			view.X1 = append(view.X1, g.X.At(i0, j))
			view.X2 = append(view.X2, g.Y.At(i0, j))
		}
		view.X3 = []float64{zAt(g, k0)}
	case 3:
		n1 = dims.Nz
		view.X1 = []float64{g.X.At(i0, j0)}
		view.X2 = []float64{g.Y.At(i0, j0)}
		view.X3 = append(view.X3, g.Z...)
	default:
		return nil, fmt.Errorf("bad line direction %d", dir)
	}

	path := binfile.SnapshotFileName(p.Dir, "line", id, block)
	vars, err := binfile.ReadLineBlock(path, n1, def.NVar, p.Order)
	if err != nil {
		return nil, err
	}
	for v, name := range def.Vars {
		view.Fields[name] = vars[v]
	}
	return view, nil
}

// Points reads and reshapes every point probe, keyed [block][point id].
func (p *Preprocessor) Points() (map[int]map[int]*PointView, error) {
	out := make(map[int]map[int]*PointView)
	for block := 1; block <= p.Info.NBlocks; block++ {
		out[block] = make(map[int]*PointView)
		id := 0
		for _, def := range p.Defs[block] {
			if def.Kind() != inifile.SnapshotPoint {
				continue
			}
			id++
			g := p.Grid[block]
			i0, j0, k0 := def.I1-1, def.J1-1, def.K1-1

			path := binfile.SnapshotFileName(p.Dir, "point", id, block)
			vars, err := binfile.ReadPointsBlock(path, def.NVar, p.Order)
			if err != nil {
				return nil, fmt.Errorf("block %d point %d: %w", block, id, err)
			}

			view := &PointView{
				X1:     g.X.At(i0, j0),
				X2:     g.Y.At(i0, j0),
				X3:     zAt(g, k0),
				Fields: make(map[string][]float64, def.NVar),
			}
			for v, name := range def.Vars {
				view.Fields[name] = vars[v]
			}
			out[block][id] = view
		}
	}
	logrus.Info("Points preprocessed for plotting")
	return out, nil
}

// zAt tolerates planar grids whose z array is a single zero.
func zAt(g *post.BlockGrid, k int) float64 {
	if k < 0 || k >= len(g.Z) {
		return g.Z[0]
	}
	return g.Z[k]
}
