package post

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// BlockGrid holds the ghost-trimmed coordinates of one block. For the 2D
// curvilinear / extruded grids handled here X and Y are nx×ny planes and Z
// is a spanwise vector (length nz, or a single zero for planar cases).
type BlockGrid struct {
	X *mat.Dense
	Y *mat.Dense
	Z []float64
}

// GridStore maps block id to its coordinate arrays. Immutable once loaded.
type GridStore map[int]*BlockGrid

// ArcLength returns the Euclidean distance between grid points (i,j1) and
// (i,j2) along the wall-normal line. Used for single mesh segments; the
// thickness integrals accumulate these per segment rather than assuming
// index spacing.
func (g *BlockGrid) ArcLength(i, j1, j2 int) float64 {
	dx := g.X.At(i, j2) - g.X.At(i, j1)
	dy := g.Y.At(i, j2) - g.Y.At(i, j1)
	return math.Hypot(dx, dy)
}

// WallNormalArcLengths returns the cumulative physical arc length along the
// wall-normal grid line at streamwise station i, from the wall (j=0) up to
// and including jmax. The result has length jmax+1 with s[0] = 0.
func (g *BlockGrid) WallNormalArcLengths(i, jmax int) []float64 {
	s := make([]float64, jmax+1)
	for j := 1; j <= jmax; j++ {
		s[j] = s[j-1] + g.ArcLength(i, j-1, j)
	}
	return s
}
