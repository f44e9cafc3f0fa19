package post

import "gonum.org/v1/gonum/mat"

// Raw statistics variable names as written by the solver. Only the subset
// the engine consumes is named here; the stores carry every variable the
// stats files contain.
const (
	VarRho    = "rho"     // mean density
	VarU      = "uu"      // mean streamwise velocity
	VarV      = "vv"      // mean wall-normal velocity
	VarW      = "ww"      // mean spanwise velocity
	VarMu     = "mu"      // mean dynamic viscosity
	VarRhoDux = "rho*dux" // rho * du/dx
	VarRhoDuy = "rho*duy" // rho * du/dy
	VarRhoDvx = "rho*dvx" // rho * dv/dx
	VarRhoDvy = "rho*dvy" // rho * dv/dy
)

// BlockStats maps a raw statistics variable name to its nx×ny field.
type BlockStats map[string]*mat.Dense

// StatsStore maps block id to its raw time-averaged statistics. The engine
// reads it and never mutates it; derived quantities live in the engine's
// own per-block cache.
type StatsStore map[int]BlockStats

// Has reports whether every named variable is present for the block.
func (s StatsStore) Has(block int, names ...string) bool {
	bs, ok := s[block]
	if !ok {
		return false
	}
	for _, n := range names {
		if bs[n] == nil {
			return false
		}
	}
	return true
}
