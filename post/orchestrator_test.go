package post

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestRequestUnknownQuantityYieldsDiagnosticNotError(t *testing.T) {
	// GIVEN an orchestrator over a valid block
	tb := newTestBlock(4, 6, true)
	o := NewOrchestrator(tb.engine())

	// WHEN an unsupported quantity is requested
	result := o.Request("enstrophy")

	// THEN the result is empty and a non-block diagnostic is recorded
	assert.Empty(t, result)
	diags := o.Diagnostics()
	if assert.Len(t, diags, 1) {
		assert.Equal(t, "enstrophy", diags[0].Quantity)
		assert.Equal(t, 0, diags[0].Block)
	}
}

func TestRequestFillsPrerequisitesTransparently(t *testing.T) {
	// GIVEN two identical engines, one driven quantity by quantity and one
	// asked for theta directly on a fresh store
	manual := NewOrchestrator(newTestBlock(4, 6, true).engine())
	lazy := NewOrchestrator(newTestBlock(4, 6, true).engine())

	for _, name := range []string{"ufst", "d99", "rho_fst"} {
		manual.Request(name)
	}

	// WHEN both request theta
	got := lazy.Request("theta")
	want := manual.Request("theta")

	// THEN the dependency order is filled in automatically and the results
	// agree
	assert.Empty(t, lazy.Diagnostics())
	assert.Equal(t, want, got)
}

func TestRequestTauwOnFreshStoreRunsWholeChain(t *testing.T) {
	// GIVEN a fresh store with no cached quantities and no wall-normal
	// file
	tb := newTestBlock(4, 6, true)
	o := NewOrchestrator(tb.engine())

	// WHEN the wall stress is requested
	result := o.Request("tauw")

	// THEN ufst, rho_fst and the flat-wall fallback normals are filled in
	// along the way and a full-length result comes back
	assert.Empty(t, o.Diagnostics())
	assert.Len(t, result[1], 4)
}

func TestRequestIsolatesPerBlockFailures(t *testing.T) {
	// GIVEN two wall blocks where block 2 lacks the mean velocity
	tb := newTestBlock(4, 6, true)
	tb.info.NBlocks = 2
	tb.info.Dims[2] = BlockDims{Nx: 4, Ny: 6, Nz: 1}
	tb.topo.BCs[2] = BlockBC{FaceJmin: BCWall}
	tb.stats[2] = BlockStats{
		VarRho: denseFromFunc(4, 6, func(i, j int) float64 { return 1 }),
	}

	o := NewOrchestrator(tb.engine())

	// WHEN the freestream velocity is requested
	result := o.Request("ufst")

	// THEN block 1 succeeds, block 2 records a diagnostic and the request
	// as a whole does not abort
	assert.Len(t, result[1], 4)
	_, ok := result[2]
	assert.False(t, ok)
	diags := o.Diagnostics()
	if assert.Len(t, diags, 1) {
		assert.Equal(t, "ufst", diags[0].Quantity)
		assert.Equal(t, 2, diags[0].Block)
		assert.Contains(t, diags[0].Message, VarU)
	}
}

func TestRequestConvertsPanicsIntoBlockDiagnostics(t *testing.T) {
	// GIVEN a wall block whose statistics arrays are smaller than the
	// declared block dimensions, so the computation indexes out of range
	tb := newTestBlock(4, 6, true)
	tb.stats[1][VarU] = mat.NewDense(2, 6, nil)

	o := NewOrchestrator(tb.engine())

	// WHEN the freestream velocity is requested
	result := o.Request("ufst")

	// THEN the panic surfaces as a block diagnostic, not a crash
	assert.Empty(t, result)
	diags := o.Diagnostics()
	if assert.Len(t, diags, 1) {
		assert.Equal(t, 1, diags[0].Block)
		assert.Contains(t, diags[0].Message, "computation failed")
	}
}

func TestRequestReturnsIndependentCopies(t *testing.T) {
	// GIVEN a computed freestream velocity
	tb := newTestBlock(4, 6, true)
	o := NewOrchestrator(tb.engine())
	first := o.Request("ufst")

	// WHEN the caller mutates its copy
	first[1][0] = -999

	// THEN a later request still sees the cached value
	second := o.Request("ufst")
	assert.NotEqual(t, -999.0, second[1][0])
}

func TestRequestAllKeysResultsByName(t *testing.T) {
	// GIVEN a valid wall block
	tb := newTestBlock(4, 6, true)
	o := NewOrchestrator(tb.engine())

	// WHEN several quantities are requested at once
	results := o.RequestAll([]string{"ufst", "d99", "cf"})

	// THEN each name maps to its per-block result
	assert.Len(t, results, 3)
	for _, name := range []string{"ufst", "d99", "cf"} {
		assert.Len(t, results[name][1], 4, name)
	}
}
