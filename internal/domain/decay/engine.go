// Package decay advances nuclide inventories through pure-decay intervals
// using closed-form Bateman chain solutions.
package decay

import (
	"fmt"
	"math"

	"github.com/okian/bateman/internal/domain/nucdata"
	"github.com/okian/bateman/internal/domain/nuclide"
)

// Ln2 is used to convert half-lives to decay constants: λ = ln2 / T½.
const Ln2 = 0.693147180559945

const (
	// maxChainDepth bounds decay-chain recursion. Real capture-product
	// chains in the library are two or three members long.
	maxChainDepth = 10
	// minBranchFraction drops contributions too small to matter.
	minBranchFraction = 1e-12
)

// Engine applies radioactive decay to inventories. It is stateless apart
// from the read-only data provider and safe for concurrent use.
type Engine struct {
	provider nucdata.Provider
}

// NewEngine returns a decay engine backed by the given data provider.
func NewEngine(p nucdata.Provider) *Engine {
	return &Engine{provider: p}
}

// DecayConstant returns λ in 1/s for a nuclide, or 0 for stable or
// unknown nuclides. Unknown nuclides are treated as stable so that an
// incomplete data library degrades to conservation, never to invention.
func (e *Engine) DecayConstant(n nuclide.Nuclide) float64 {
	d, ok := e.provider.DecayChain(n)
	if !ok || d.Stable() {
		return 0
	}
	return Ln2 / d.HalfLifeSeconds
}

// Decay returns the inventory after seconds of pure decay. Daughters
// accumulate along each nuclide's chain with branching ratios respected.
// A negative interval is a caller bug and fails loudly.
func (e *Engine) Decay(inv nuclide.Inventory, seconds float64) (nuclide.Inventory, error) {
	if seconds < 0 {
		return nil, fmt.Errorf("%w: %g s", ErrNegativeInterval, seconds)
	}
	if seconds == 0 {
		return inv.Clone(), nil
	}
	out := nuclide.NewInventory()
	for n, atoms := range inv {
		if atoms <= 0 {
			continue
		}
		e.propagate(out, []float64{e.DecayConstant(n)}, []nuclide.Nuclide{n}, atoms, 1.0, seconds)
	}
	return out, nil
}

// propagate adds the Bateman contribution of n0 atoms that start at the
// head of path, to the last member of path, then recurses into the last
// member's decay branches.
func (e *Engine) propagate(out nuclide.Inventory, lambdas []float64, path []nuclide.Nuclide, n0, branchFraction, t float64) {
	if branchFraction < minBranchFraction || len(path) > maxChainDepth {
		return
	}
	last := path[len(path)-1]
	out.Add(last, n0*branchFraction*bateman(lambdas, t))

	d, ok := e.provider.DecayChain(last)
	if !ok || d.Stable() {
		return
	}
	for _, br := range d.Branches {
		daughter := br.Daughter
		lam := e.DecayConstant(daughter)
		e.propagate(out,
			append(append([]float64{}, lambdas...), lam),
			append(append([]nuclide.Nuclide{}, path...), daughter),
			n0, branchFraction*br.Fraction, t)
	}
}

// bateman evaluates the k-member chain solution for one atom starting in
// the first member: N_k(t)/N_1(0) = (Π_{i<k} λ_i) Σ_i e^{-λ_i t} / Π_{j≠i}(λ_j−λ_i).
// A zero λ for the last member (stable end product) is handled by the same
// formula. Near-degenerate decay constants are nudged apart to keep the
// denominators finite.
func bateman(lambdas []float64, t float64) float64 {
	k := len(lambdas)
	if k == 1 {
		return math.Exp(-lambdas[0] * t)
	}
	lams := make([]float64, k)
	copy(lams, lambdas)
	for i := 0; i < k; i++ {
		for j := 0; j < i; j++ {
			if diff := math.Abs(lams[i] - lams[j]); diff < 1e-12*(lams[i]+lams[j]+1e-300) {
				lams[i] *= 1 + 1e-9
			}
		}
	}
	prefactor := 1.0
	for i := 0; i < k-1; i++ {
		prefactor *= lams[i]
	}
	var sum float64
	for i := 0; i < k; i++ {
		denom := 1.0
		for j := 0; j < k; j++ {
			if j != i {
				denom *= lams[j] - lams[i]
			}
		}
		sum += math.Exp(-lams[i]*t) / denom
	}
	v := prefactor * sum
	if v < 0 {
		// floating-point cancellation on long-lived chains
		v = 0
	}
	return v
}

// Activities converts an inventory to per-nuclide activities in Bq (λN)
// and the total. Stable and unknown nuclides contribute nothing.
func (e *Engine) Activities(inv nuclide.Inventory) (map[nuclide.Nuclide]float64, float64) {
	out := make(map[nuclide.Nuclide]float64)
	var total float64
	for n, atoms := range inv {
		lam := e.DecayConstant(n)
		if lam <= 0 || atoms <= 0 {
			continue
		}
		bq := lam * atoms
		out[n] = bq
		total += bq
	}
	return out, total
}
