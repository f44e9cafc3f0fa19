package post

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// computeFuncs is the dispatch table from quantity variant to engine
// method. tauw/cf share one computation, as do d99/j99.
var computeFuncs = [numQuantities]func(*Engine, int) error{
	QuantityUfst:   (*Engine).computeUfst,
	QuantityJ99:    (*Engine).computeD99,
	QuantityRhoFst: (*Engine).computeRhoFst,
	QuantityD99:    (*Engine).computeD99,
	QuantityDeltas: (*Engine).computeDeltas,
	QuantityTheta:  (*Engine).computeTheta,
	QuantityTauw:   (*Engine).computeWallStress,
	QuantityCf:     (*Engine).computeWallStress,
}

// Ensure computes the quantity for one block, filling missing prerequisites
// depth-first. Already-cached quantities are not recomputed.
func (e *Engine) Ensure(block int, q Quantity) error {
	for _, p := range prereqs[q] {
		if err := e.Ensure(block, p); err != nil {
			return err
		}
	}
	if e.Field(block, q) != nil {
		return nil
	}
	if err := computeFuncs[q](e, block); err != nil {
		return fmt.Errorf("computing %s: %w", q, err)
	}
	return nil
}

// Diagnostic records a failed or unsupported request. Failures are
// block-local: one block's fault never aborts the others.
type Diagnostic struct {
	Quantity string
	Block    int // 0 when the diagnostic is not block-specific
	Message  string
}

// Orchestrator dispatches named quantity requests to the engine, enforcing
// the dependency order, isolating per-block failures and handing immutable
// snapshots back to the caller.
type Orchestrator struct {
	engine *Engine
	diags  []Diagnostic
}

// NewOrchestrator wraps an engine.
func NewOrchestrator(engine *Engine) *Orchestrator {
	return &Orchestrator{engine: engine}
}

// Request computes the named quantity for every block and returns the
// per-block results. Unknown names and per-block computation failures yield
// an empty/partial result plus a recorded diagnostic, never an error to the
// caller.
func (o *Orchestrator) Request(name string) map[int][]float64 {
	result := make(map[int][]float64)

	q, ok := ParseQuantity(name)
	if !ok {
		o.record(name, 0, "unsupported quantity")
		logrus.Errorf("Requested quantity %q is not supported", name)
		return result
	}

	for block := 1; block <= o.engine.info.NBlocks; block++ {
		if err := o.computeBlock(block, q); err != nil {
			o.record(name, block, err.Error())
			logrus.Errorf("block %d: %s: %v", block, name, err)
			continue
		}
		result[block] = snapshot(o.engine.Field(block, q))
	}

	logrus.Infof("Quantity %s computed for %d/%d block(s)", name, len(result), o.engine.info.NBlocks)
	return result
}

// RequestAll runs Request for each name, keyed by name.
func (o *Orchestrator) RequestAll(names []string) map[string]map[int][]float64 {
	out := make(map[string]map[int][]float64, len(names))
	for _, name := range names {
		out[name] = o.Request(name)
	}
	return out
}

// Diagnostics returns the accumulated request diagnostics.
func (o *Orchestrator) Diagnostics() []Diagnostic {
	return o.diags
}

// computeBlock is the dispatch boundary: any panic from index arithmetic
// inside a computation is converted into a block-local error here.
func (o *Orchestrator) computeBlock(block int, q Quantity) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("computation failed: %v", rec)
		}
	}()
	return o.engine.Ensure(block, q)
}

func (o *Orchestrator) record(quantity string, block int, msg string) {
	o.diags = append(o.diags, Diagnostic{Quantity: quantity, Block: block, Message: msg})
}

func snapshot(s []float64) []float64 {
	out := make([]float64, len(s))
	copy(out, s)
	return out
}
