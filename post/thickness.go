package post

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/integrate"
)

// computeD99 walks each wall-normal grid line away from the wall until the
// mean velocity reaches EdgeFraction (99%) of the freestream value,
// accumulating physical arc length segment by segment, then interpolates
// inside the last segment and projects the arc length onto the wall-normal
// direction. The walk exit index is cached as j99 for the thickness
// integrals.
func (e *Engine) computeD99(block int) error {
	dims := e.info.Dims[block]
	r := e.results(block)

	if !e.topo.HasWall(block) {
		r.d99 = make([]float64, dims.Nx)
		r.j99 = constantSlice(dims.Nx, 1)
		return nil
	}

	normals, err := e.wallNormals(block)
	if err != nil {
		return fmt.Errorf("d99 needs wall normals: %w", err)
	}
	if err := e.requireVars(block, VarU); err != nil {
		return err
	}
	g, ok := e.grid[block]
	if !ok {
		return fmt.Errorf("block %d: grid missing", block)
	}

	u := e.stats[block][VarU]
	d99 := make([]float64, dims.Nx)
	j99 := make([]float64, dims.Nx)

	for i := 0; i < dims.Nx; i++ {
		target := e.params.EdgeFraction * r.ufst[i]
		j := 0
		arc := 0.0 // cumulative arc length from the wall to point j
		for u.At(i, j) < target && j < dims.Ny-1 {
			j++
			dl := g.ArcLength(i, j-1, j)
			// Linear interpolation of the crossing inside segment [j-1, j].
			lj := arc + dl*(target-u.At(i, j-1))/(u.At(i, j)-u.At(i, j-1))
			arc += dl
			d99[i] = math.Abs(lj * normals.Y[i])
		}
		j99[i] = float64(j)
	}

	r.d99 = d99
	r.j99 = j99
	return nil
}

// computeDeltas integrates the mass-flux deficit 1 - rho*u/(rho_fst*ufst)
// from the wall to the boundary-layer edge, over physical arc length.
func (e *Engine) computeDeltas(block int) error {
	dims := e.info.Dims[block]
	r := e.results(block)

	if !e.topo.HasWall(block) {
		r.deltas = make([]float64, dims.Nx)
		return nil
	}
	if err := e.requireVars(block, VarRho, VarU); err != nil {
		return err
	}
	g := e.grid[block]
	rho := e.stats[block][VarRho]
	u := e.stats[block][VarU]

	deltas := make([]float64, dims.Nx)
	for i := 0; i < dims.Nx; i++ {
		jTop := int(r.j99[i])
		if jTop > dims.Ny-1 {
			jTop = dims.Ny - 1
		}
		if jTop < 1 {
			continue
		}
		xs := g.WallNormalArcLengths(i, jTop)
		ys := make([]float64, jTop+1)
		for j := 0; j <= jTop; j++ {
			// Mean streamwise velocity in the mass flux, matching the
			// momentum-thickness integrand (flagged ambiguity in the
			// reference formulation).
			ys[j] = 1 - rho.At(i, j)*u.At(i, j)/(r.ufst[i]*r.rhoFst[i])
		}
		deltas[i] = integrate.Trapezoidal(xs, ys)
	}

	r.deltas = deltas
	return nil
}

// computeTheta integrates the momentum-flux deficit (u/ufst)*(1 - u/ufst)
// over physical arc length, running ThetaEdgeMargin points past the
// boundary-layer edge to absorb integration-cell truncation.
func (e *Engine) computeTheta(block int) error {
	dims := e.info.Dims[block]
	r := e.results(block)

	if !e.topo.HasWall(block) {
		r.theta = make([]float64, dims.Nx)
		return nil
	}
	if err := e.requireVars(block, VarU); err != nil {
		return err
	}

	// Degenerate-block shortcut: any zero freestream velocity would divide
	// by zero, so the whole block collapses to zero.
	for i := 0; i < dims.Nx; i++ {
		if r.ufst[i] == 0 {
			logrus.Warnf("block %d: zero freestream velocity at station %d, momentum thickness zeroed for the block", block, i)
			r.theta = make([]float64, dims.Nx)
			return nil
		}
	}

	g := e.grid[block]
	u := e.stats[block][VarU]

	theta := make([]float64, dims.Nx)
	for i := 0; i < dims.Nx; i++ {
		jTop := int(r.j99[i]) + e.params.ThetaEdgeMargin
		if jTop > dims.Ny-1 {
			jTop = dims.Ny - 1
		}
		if jTop < 1 {
			continue
		}
		xs := g.WallNormalArcLengths(i, jTop)
		ys := make([]float64, jTop+1)
		for j := 0; j <= jTop; j++ {
			ratio := u.At(i, j) / r.ufst[i]
			ys[j] = ratio * (1 - ratio)
		}
		theta[i] = integrate.Trapezoidal(xs, ys)
	}

	r.theta = theta
	return nil
}
