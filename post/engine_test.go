package post

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFreestreamVelocityWithoutWallIsReferenceState(t *testing.T) {
	// GIVEN a block with no wall on its Jmin face
	tb := newTestBlock(4, 6, false)
	e := tb.engine()

	// WHEN the freestream velocity is computed
	err := e.Ensure(1, QuantityUfst)

	// THEN every station carries the reference velocity and the detection
	// index stays at the first off-wall point
	assert.NoError(t, err)
	assert.Equal(t, constantSlice(4, tb.info.URef), e.Field(1, QuantityUfst))
	assert.Equal(t, []int{1, 1, 1, 1}, e.results(1).jfst)
}

func TestFreestreamVelocityDetectsVorticityEdge(t *testing.T) {
	// GIVEN a wall block whose vorticity proxy drops below the threshold
	// at wall-normal index 3 for every station
	tb := newTestBlock(4, 6, true)
	tb.stats[1][VarRhoDuy] = denseFromFunc(4, 6, func(i, j int) float64 {
		if j < 3 {
			return 1 // omega = -1, so -y*omega = y >= 0.1 above the threshold
		}
		return 0
	})

	e := tb.engine()

	// WHEN the freestream velocity is computed
	err := e.Ensure(1, QuantityUfst)

	// THEN the detector samples the mean velocity at index 3
	assert.NoError(t, err)
	u := tb.stats[1][VarU]
	for i := 0; i < 4; i++ {
		assert.Equal(t, u.At(i, 3), e.Field(1, QuantityUfst)[i])
		assert.Equal(t, 3, e.results(1).jfst[i])
	}
}

func TestFreestreamVelocityFallsBackWhenEdgeNeverFound(t *testing.T) {
	// GIVEN a wall block whose vorticity proxy stays above the threshold
	// on every wall-normal line
	tb := newTestBlock(4, 6, true)
	tb.stats[1][VarRhoDuy] = denseFromFunc(4, 6, func(i, j int) float64 { return 1 })

	e := tb.engine()

	// WHEN the freestream velocity is computed
	err := e.Ensure(1, QuantityUfst)

	// THEN the detector falls back to the first off-wall point
	assert.NoError(t, err)
	u := tb.stats[1][VarU]
	for i := 0; i < 4; i++ {
		assert.Equal(t, u.At(i, 1), e.Field(1, QuantityUfst)[i])
		assert.Equal(t, 1, e.results(1).jfst[i])
	}
}

func TestFreestreamVelocityZeroInflowPatchedFromNextStation(t *testing.T) {
	// GIVEN a wall block whose inflow station carries the known
	// zero-velocity artifact
	tb := newTestBlock(4, 6, true)
	u := tb.stats[1][VarU]
	for j := 0; j < 6; j++ {
		u.Set(0, j, 0)
	}

	e := tb.engine()

	// WHEN the freestream velocity is computed
	err := e.Ensure(1, QuantityUfst)

	// THEN station 0 takes the value of station 1
	assert.NoError(t, err)
	ufst := e.Field(1, QuantityUfst)
	assert.Equal(t, ufst[1], ufst[0])
	assert.NotZero(t, ufst[0])
}

func TestFreestreamVelocitySeparationRestartsEdgeSearch(t *testing.T) {
	// GIVEN a wall block with reversed mean flow at (i=2, j=1)
	tb := newTestBlock(4, 6, true)
	tb.stats[1][VarU] = denseFromFunc(4, 6, func(i, j int) float64 {
		if i == 2 && j == 1 {
			return -0.5
		}
		return 1
	})

	e := tb.engine()

	// WHEN the freestream velocity is computed
	err := e.Ensure(1, QuantityUfst)

	// THEN the edge search at the separated station restarts above the
	// reversed-flow point while the others detect at the first index
	assert.NoError(t, err)
	jfst := e.results(1).jfst
	assert.Equal(t, []int{1, 1, 3, 1}, jfst)
	assert.Equal(t, constantSlice(4, 1), e.Field(1, QuantityUfst))
}

func TestFreestreamVelocityMissingStatisticsIsAnError(t *testing.T) {
	// GIVEN a wall block whose statistics lack the mean velocity
	tb := newTestBlock(4, 6, true)
	delete(tb.stats[1], VarU)

	e := tb.engine()

	// WHEN the freestream velocity is computed
	err := e.Ensure(1, QuantityUfst)

	// THEN the computation reports the missing variable
	assert.Error(t, err)
	assert.Contains(t, err.Error(), VarU)
}

func TestFreestreamDensitySamplesAtDetectionIndex(t *testing.T) {
	// GIVEN a wall block with a density field varying in j and the edge
	// detected at the first off-wall index
	tb := newTestBlock(4, 6, true)
	tb.stats[1][VarRho] = denseFromFunc(4, 6, func(i, j int) float64 {
		return 2 + 0.1*float64(j)
	})

	e := tb.engine()

	// WHEN the freestream density is computed
	err := e.Ensure(1, QuantityRhoFst)

	// THEN stations 1.. sample rho at the detection index and station 0
	// is patched from station 2
	assert.NoError(t, err)
	rhoFst := e.Field(1, QuantityRhoFst)
	for i := 1; i < 4; i++ {
		assert.InDelta(t, 2.1, rhoFst[i], 1e-15)
	}
	assert.Equal(t, rhoFst[2], rhoFst[0])
}

func TestFreestreamDensityWithoutWallIsReferenceState(t *testing.T) {
	// GIVEN a block with no wall
	tb := newTestBlock(4, 6, false)
	e := tb.engine()

	// WHEN the freestream density is computed
	err := e.Ensure(1, QuantityRhoFst)

	// THEN every station carries the reference density
	assert.NoError(t, err)
	assert.Equal(t, constantSlice(4, tb.info.RhoRef), e.Field(1, QuantityRhoFst))
}

func TestEnsureDoesNotRecomputeCachedQuantities(t *testing.T) {
	// GIVEN a block whose freestream velocity has been computed
	tb := newTestBlock(4, 6, true)
	e := tb.engine()
	assert.NoError(t, e.Ensure(1, QuantityUfst))
	first := e.Field(1, QuantityUfst)

	// WHEN the underlying statistics change and the quantity is requested
	// again
	tb.stats[1][VarU] = denseFromFunc(4, 6, func(i, j int) float64 { return 99 })
	assert.NoError(t, e.Ensure(1, QuantityUfst))

	// THEN the cached slice is returned untouched
	assert.Equal(t, first, e.Field(1, QuantityUfst))
}
