package post

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// wallNormalVelocityGradient evaluates the wall-normal derivative of the
// tangential velocity component at the wall (j=0) for every streamwise
// station. Purely local tensor algebra: the four in-plane velocity-gradient
// moments are divided by density and projected onto the wall
// tangent/normal pair,
//
//	du_t/dn = n_x (t_x du/dx + t_y dv/dx) + n_y (t_x du/dy + t_y dv/dy)
//
// with t the 90-degree rotation of the wall normal.
func (e *Engine) wallNormalVelocityGradient(block int, normals *WallNormalField) ([]float64, error) {
	if err := e.requireVars(block, VarRho, VarRhoDux, VarRhoDuy, VarRhoDvx, VarRhoDvy); err != nil {
		return nil, err
	}

	bs := e.stats[block]
	rho := bs[VarRho]
	rhoDux := bs[VarRhoDux]
	rhoDuy := bs[VarRhoDuy]
	rhoDvx := bs[VarRhoDvx]
	rhoDvy := bs[VarRhoDvy]

	nx := e.info.Dims[block].Nx
	dudn := make([]float64, nx)
	for i := 0; i < nx; i++ {
		rhoW := rho.At(i, 0)
		dux := rhoDux.At(i, 0) / rhoW
		duy := rhoDuy.At(i, 0) / rhoW
		dvx := rhoDvx.At(i, 0) / rhoW
		dvy := rhoDvy.At(i, 0) / rhoW

		tx, ty := normals.Tangent(i)
		dudn[i] = normals.X[i]*(tx*dux+ty*dvx) + normals.Y[i]*(tx*duy+ty*dvy)
	}
	return dudn, nil
}

// computeWallStress fills tauw and cf together: tauw = mu_wall * du_t/dn,
// cf = tauw / (0.5 * rho_fst * ufst^2).
func (e *Engine) computeWallStress(block int) error {
	dims := e.info.Dims[block]
	r := e.results(block)

	if !e.topo.HasWall(block) {
		r.tauw = make([]float64, dims.Nx)
		r.cf = make([]float64, dims.Nx)
		return nil
	}

	normals, err := e.wallNormals(block)
	if err != nil {
		return fmt.Errorf("wall stress needs wall normals: %w", err)
	}
	if err := e.requireVars(block, VarMu); err != nil {
		return err
	}

	dudn, err := e.wallNormalVelocityGradient(block, normals)
	if err != nil {
		return err
	}

	mu := e.stats[block][VarMu]
	tauw := make([]float64, dims.Nx)
	cf := make([]float64, dims.Nx)
	for i := 0; i < dims.Nx; i++ {
		tauw[i] = mu.At(i, 0) * dudn[i]
		if r.ufst[i] == 0 {
			// Degenerate freestream: cf stays zero instead of dividing
			// by zero, same workaround as the momentum thickness.
			logrus.Warnf("block %d: zero freestream velocity at station %d, skin friction zeroed", block, i)
			continue
		}
		cf[i] = tauw[i] / (0.5 * r.rhoFst[i] * r.ufst[i] * r.ufst[i])
	}

	r.tauw = tauw
	r.cf = cf
	return nil
}
