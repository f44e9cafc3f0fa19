package post

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
)

// repairDiscontinuity patches jumps in the detected freestream velocity.
// The vorticity threshold can hop between wall-normal indices across
// separation/reattachment zones, leaving >50% station-to-station jumps in
// ufst. The repair smooths the anchor segments on either side of the
// discontinuous region and bridges the gap with a cubic interpolant in the
// streamwise physical coordinate. This is a post-hoc smoothing pass, not a
// root-cause fix.
//
// With no discontinuity the inputs are returned unchanged, which makes the
// pass idempotent once a repair has converged.
func (e *Engine) repairDiscontinuity(ufst []float64, jfst []int, block int) ([]float64, []int, error) {
	n := len(ufst)
	var jumps []int
	for k := 0; k+1 < n; k++ {
		rel := math.Abs(ufst[k+1]-ufst[k]) / math.Abs(ufst[k]) * 100
		if rel > e.params.JumpThresholdPct {
			jumps = append(jumps, k)
		}
	}
	if len(jumps) == 0 {
		return ufst, jfst, nil
	}

	i1 := jumps[0]
	if i1 == 0 {
		// Discontinuity at the very first station: no upstream anchor, no
		// repair attempted.
		return ufst, jfst, nil
	}
	i1--
	i2 := jumps[len(jumps)-1] + 1

	logrus.Warnf("block %d: freestream velocity discontinuous over stations [%d,%d), repairing", block, i1, i2)

	g, ok := e.grid[block]
	if !ok {
		return nil, nil, fmt.Errorf("block %d: grid missing", block)
	}

	// Anchor segments, smoothed independently. The widths differ because
	// noise levels upstream and downstream of a separation zone do.
	left := gaussianSmooth(ufst[:i1], e.params.SigmaLeft)
	right := gaussianSmooth(ufst[i2:], e.params.SigmaRight)

	xKnown := make([]float64, 0, len(left)+len(right))
	uKnown := make([]float64, 0, len(left)+len(right))
	for i := 0; i < i1; i++ {
		xKnown = append(xKnown, g.X.At(i, jfst[i1]))
		uKnown = append(uKnown, left[i])
	}
	for i := i2; i < n; i++ {
		xKnown = append(xKnown, g.X.At(i, jfst[i2]))
		uKnown = append(uKnown, right[i-i2])
	}

	// The fit needs increasing abscissas; blocks whose physical x runs
	// against the index direction provide them in descending order.
	inds := make([]int, len(xKnown))
	floats.Argsort(xKnown, inds)
	sortedU := make([]float64, len(uKnown))
	for i, j := range inds {
		sortedU[i] = uKnown[j]
	}
	uKnown = sortedU

	var spline interp.NotAKnotCubic
	if err := spline.Fit(xKnown, uKnown); err != nil {
		return nil, nil, fmt.Errorf("fitting cubic through anchor segments: %w", err)
	}

	out := make([]float64, 0, n)
	out = append(out, left...)
	for i := i1; i < i2; i++ {
		out = append(out, spline.Predict(g.X.At(i, jfst[i2])))
	}
	out = append(out, right...)

	// Freeze the freestream index to its downstream value across the gap.
	jOut := make([]int, n)
	copy(jOut, jfst)
	for i := i1; i < i2; i++ {
		jOut[i] = jfst[i2]
	}
	return out, jOut, nil
}

// gaussianSmooth applies a 1-D Gaussian kernel with reflect boundary
// handling (kernel truncated at 4 sigma, matching the usual filter
// convention). Implemented directly: gonum carries no spatial-domain
// Gaussian filter.
func gaussianSmooth(in []float64, sigma float64) []float64 {
	out := make([]float64, len(in))
	if len(in) == 0 {
		return out
	}
	if sigma <= 0 {
		copy(out, in)
		return out
	}

	radius := int(4*sigma + 0.5)
	weights := make([]float64, 2*radius+1)
	for k := -radius; k <= radius; k++ {
		weights[k+radius] = math.Exp(-float64(k*k) / (2 * sigma * sigma))
	}
	floats.Scale(1/floats.Sum(weights), weights)

	for i := range in {
		acc := 0.0
		for k := -radius; k <= radius; k++ {
			acc += weights[k+radius] * in[reflectIndex(i+k, len(in))]
		}
		out[i] = acc
	}
	return out
}

// reflectIndex maps an out-of-range index into [0,n) by mirroring about the
// array edges: (d c b a | a b c d | d c b a).
func reflectIndex(idx, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * n
	idx %= period
	if idx < 0 {
		idx += period
	}
	if idx >= n {
		idx = period - idx - 1
	}
	return idx
}
