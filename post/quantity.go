package post

import "fmt"

// Quantity enumerates the derived boundary-layer quantities the engine can
// compute. The fixed set replaces name-based method lookup: unknown names
// fail at ParseQuantity and the dispatch table in orchestrator.go is
// exhaustive over these variants.
type Quantity int

const (
	QuantityUfst   Quantity = iota // freestream velocity per streamwise station
	QuantityJ99                    // wall-normal index of the boundary-layer edge
	QuantityRhoFst                 // freestream density
	QuantityD99                    // 99% boundary-layer thickness
	QuantityDeltas                 // displacement thickness
	QuantityTheta                  // momentum thickness
	QuantityTauw                   // wall shear stress
	QuantityCf                     // skin-friction coefficient

	numQuantities
)

var quantityNames = [numQuantities]string{
	QuantityUfst:   "ufst",
	QuantityJ99:    "j99",
	QuantityRhoFst: "rho_fst",
	QuantityD99:    "d99",
	QuantityDeltas: "deltas",
	QuantityTheta:  "theta",
	QuantityTauw:   "tauw",
	QuantityCf:     "cf",
}

func (q Quantity) String() string {
	if q < 0 || q >= numQuantities {
		return fmt.Sprintf("Quantity(%d)", int(q))
	}
	return quantityNames[q]
}

// ParseQuantity maps a user-facing name to its variant. The boolean is
// false for unsupported names; callers surface that as a diagnostic, not an
// error.
func ParseQuantity(name string) (Quantity, bool) {
	for q, n := range quantityNames {
		if n == name {
			return Quantity(q), true
		}
	}
	return 0, false
}

// prereqs lists the quantities that must exist before each quantity is
// computed. The orchestrator fills them lazily (depth-first) so requesting
// e.g. "theta" on a fresh store transparently triggers ufst, d99 and
// rho_fst first.
var prereqs = [numQuantities][]Quantity{
	QuantityUfst:   nil,
	QuantityJ99:    {QuantityUfst, QuantityD99},
	QuantityRhoFst: {QuantityUfst},
	QuantityD99:    {QuantityUfst},
	QuantityDeltas: {QuantityUfst, QuantityD99, QuantityRhoFst},
	QuantityTheta:  {QuantityUfst, QuantityD99, QuantityRhoFst},
	QuantityTauw:   {QuantityUfst, QuantityRhoFst},
	QuantityCf:     {QuantityUfst, QuantityRhoFst},
}
