package post

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

func TestMain(m *testing.M) {
	// Keep engine warnings out of test output unless a test opts in.
	logrus.SetLevel(logrus.ErrorLevel)
	os.Exit(m.Run())
}

// denseFromFunc fills an nx×ny field from a function of the indices.
func denseFromFunc(nx, ny int, f func(i, j int) float64) *mat.Dense {
	m := mat.NewDense(nx, ny, nil)
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			m.Set(i, j, f(i, j))
		}
	}
	return m
}

// testBlock assembles a single-block engine over a gently stretched flat
// grid: x depends on i only, y on j only. Statistics default to a uniform
// attached boundary layer; tests override fields as needed.
type testBlock struct {
	nx, ny int
	wall   bool

	grid  GridStore
	stats StatsStore
	info  *SimInfo
	topo  *Topology
}

func newTestBlock(nx, ny int, wall bool) *testBlock {
	tb := &testBlock{nx: nx, ny: ny, wall: wall}

	tb.grid = GridStore{1: &BlockGrid{
		X: denseFromFunc(nx, ny, func(i, j int) float64 { return float64(i) }),
		Y: denseFromFunc(nx, ny, func(i, j int) float64 { return 0.1 * float64(j) }),
		Z: []float64{0},
	}}

	tb.stats = StatsStore{1: BlockStats{
		VarRho: denseFromFunc(nx, ny, func(i, j int) float64 { return 1 }),
		// Monotone profile levelling off at 1.
		VarU: denseFromFunc(nx, ny, func(i, j int) float64 {
			u := 0.5 * float64(j)
			if u > 1 {
				u = 1
			}
			return u
		}),
		VarMu: denseFromFunc(nx, ny, func(i, j int) float64 { return 1 }),
		// Zero vorticity proxy: the edge criterion fires at the first
		// searched index.
		VarRhoDux: denseFromFunc(nx, ny, func(i, j int) float64 { return 0 }),
		VarRhoDuy: denseFromFunc(nx, ny, func(i, j int) float64 { return 0 }),
		VarRhoDvx: denseFromFunc(nx, ny, func(i, j int) float64 { return 0 }),
		VarRhoDvy: denseFromFunc(nx, ny, func(i, j int) float64 { return 0 }),
	}}

	tb.info = &SimInfo{
		NBlocks: 1,
		Dims:    map[int]BlockDims{1: {Nx: nx, Ny: ny, Nz: 1}},
		URef:    7.5,
		RhoRef:  1.25,
		IsCurv:  true,
		Ngh:     5,
	}

	tb.topo = NewTopology()
	kind := BCOther
	if wall {
		kind = BCWall
	}
	tb.topo.BCs[1] = BlockBC{FaceJmin: kind}

	return tb
}

func (tb *testBlock) engine() *Engine {
	return NewEngine(tb.grid, tb.stats, tb.info, tb.topo, DefaultEngineParams())
}
