package post

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// EngineParams collects the empirical constants of the boundary-layer
// engine. The defaults come from the solver's validation cases; change them
// only with domain validation.
type EngineParams struct {
	VorticityThreshold float64 // freestream edge-detection threshold on -y*omega_z
	JumpThresholdPct   float64 // relative jump (percent) flagging a ufst discontinuity
	SigmaLeft          float64 // Gaussian smoothing width for the upstream anchor segment
	SigmaRight         float64 // Gaussian smoothing width for the downstream anchor segment
	ThetaEdgeMargin    int     // extra wall-normal points integrated past j99 for theta
	EdgeFraction       float64 // freestream fraction defining the boundary-layer edge
}

// DefaultEngineParams returns the validated constants.
func DefaultEngineParams() EngineParams {
	return EngineParams{
		VorticityThreshold: 0.02,
		JumpThresholdPct:   50,
		SigmaLeft:          2,
		SigmaRight:         3,
		ThetaEdgeMargin:    10,
		EdgeFraction:       0.99,
	}
}

// blockResults is the per-block cache of derived quantities. A nil slice
// means "not computed yet". jfst (the freestream detection index) is kept
// separate from j99 (the d99 walk exit index) so rho_fst does not depend on
// whether d99 ran first.
type blockResults struct {
	ufst   []float64
	jfst   []int
	rhoFst []float64
	d99    []float64
	j99    []float64
	deltas []float64
	theta  []float64
	tauw   []float64
	cf     []float64
}

// Engine derives boundary-layer quantities from raw per-block statistics on
// 2D curvilinear (or extruded) grids with walls at Jmin. It assumes
// exclusive single-writer access; concurrent requests must be serialized by
// the caller.
type Engine struct {
	grid   GridStore
	stats  StatsStore
	info   *SimInfo
	topo   *Topology
	params EngineParams

	cache map[int]*blockResults
}

// NewEngine wires the engine to its immutable inputs.
func NewEngine(grid GridStore, stats StatsStore, info *SimInfo, topo *Topology, params EngineParams) *Engine {
	return &Engine{
		grid:   grid,
		stats:  stats,
		info:   info,
		topo:   topo,
		params: params,
		cache:  make(map[int]*blockResults),
	}
}

func (e *Engine) results(block int) *blockResults {
	r, ok := e.cache[block]
	if !ok {
		r = &blockResults{}
		e.cache[block] = r
	}
	return r
}

// Field returns the cached slice for the quantity, or nil when it has not
// been computed. The returned slice aliases the cache; the orchestrator
// copies before handing results to callers.
func (e *Engine) Field(block int, q Quantity) []float64 {
	r, ok := e.cache[block]
	if !ok {
		return nil
	}
	switch q {
	case QuantityUfst:
		return r.ufst
	case QuantityJ99:
		return r.j99
	case QuantityRhoFst:
		return r.rhoFst
	case QuantityD99:
		return r.d99
	case QuantityDeltas:
		return r.deltas
	case QuantityTheta:
		return r.theta
	case QuantityTauw:
		return r.tauw
	case QuantityCf:
		return r.cf
	default:
		return nil
	}
}

// wallNormals resolves the wall-normal field for a block. When no
// wall-normal file was loaded at all the flat-wall fallback is generated on
// demand; when a file exists but lacks this block, that is a
// missing-prerequisite fault.
func (e *Engine) wallNormals(block int) (*WallNormalField, error) {
	if f := e.topo.Normals[block]; f != nil {
		return f, nil
	}
	if !e.topo.HasNormalFile {
		nx := e.info.Dims[block].Nx
		logrus.Warnf("block %d: no precomputed wall normals, assuming flat wall with normal (0,1)", block)
		f := FlatWallNormals(nx)
		e.topo.Normals[block] = f
		return f, nil
	}
	return nil, fmt.Errorf("block %d: wall-normal field missing from loaded file", block)
}

func (e *Engine) requireVars(block int, names ...string) error {
	for _, n := range names {
		if !e.stats.Has(block, n) {
			return fmt.Errorf("block %d: statistics variable %q missing", block, n)
		}
	}
	return nil
}

func constantSlice(n int, v float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = v
	}
	return s
}

// computeUfst runs the freestream detector for one block: a vorticity
// threshold search per streamwise station, the inflow zero-velocity patch,
// then the discontinuity repair pass.
func (e *Engine) computeUfst(block int) error {
	dims := e.info.Dims[block]

	if !e.topo.HasWall(block) {
		// Slip wall or no wall: freestream is the reference state.
		r := e.results(block)
		r.ufst = constantSlice(dims.Nx, e.info.URef)
		jfst := make([]int, dims.Nx)
		for i := range jfst {
			jfst[i] = 1
		}
		r.jfst = jfst
		return nil
	}

	if err := e.requireVars(block, VarRho, VarU, VarRhoDvx, VarRhoDuy); err != nil {
		return err
	}
	g, ok := e.grid[block]
	if !ok {
		return fmt.Errorf("block %d: grid missing", block)
	}

	bs := e.stats[block]
	rho := bs[VarRho]
	u := bs[VarU]
	rhoDvx := bs[VarRhoDvx]
	rhoDuy := bs[VarRhoDuy]

	ufst := make([]float64, dims.Nx)
	jfst := make([]int, dims.Nx)

	for i := 0; i < dims.Nx; i++ {
		// Flow-separation heuristic: restart the edge search above the last
		// wall-normal index with reversed mean flow.
		offset := 1
		for j := 0; j < dims.Ny; j++ {
			if u.At(i, j) < 0 {
				offset = j + 2
			}
		}

		found := false
		for j := offset; j < dims.Ny; j++ {
			// Spanwise vorticity proxy: (rho*dvx - rho*duy)/rho.
			omega := (rhoDvx.At(i, j) - rhoDuy.At(i, j)) / rho.At(i, j)
			if -g.Y.At(i, j)*omega < e.params.VorticityThreshold {
				ufst[i] = u.At(i, j)
				jfst[i] = j
				found = true
				break
			}
		}
		if !found {
			ufst[i] = u.At(i, 1)
			jfst[i] = 1
		}
	}

	// Known zero-velocity artifact at the inflow station.
	if dims.Nx > 1 && ufst[0] == 0 {
		ufst[0] = ufst[1]
	}

	ufst, jfst, err := e.repairDiscontinuity(ufst, jfst, block)
	if err != nil {
		return fmt.Errorf("block %d: freestream discontinuity repair: %w", block, err)
	}

	r := e.results(block)
	r.ufst = ufst
	r.jfst = jfst
	return nil
}

// computeRhoFst samples the mean density at the freestream detection index.
// Station 0 keeps its initialized zero and is then patched from station 2,
// the same inflow artifact workaround as for the velocity.
func (e *Engine) computeRhoFst(block int) error {
	dims := e.info.Dims[block]
	r := e.results(block)

	if !e.topo.HasWall(block) {
		r.rhoFst = constantSlice(dims.Nx, e.info.RhoRef)
		return nil
	}
	if err := e.requireVars(block, VarRho); err != nil {
		return err
	}

	rho := e.stats[block][VarRho]
	rhoFst := make([]float64, dims.Nx)
	for i := 1; i < dims.Nx; i++ {
		rhoFst[i] = rho.At(i, r.jfst[i])
	}
	if rhoFst[0] == 0 && dims.Nx > 2 {
		rhoFst[0] = rhoFst[2]
	}
	r.rhoFst = rhoFst
	return nil
}
