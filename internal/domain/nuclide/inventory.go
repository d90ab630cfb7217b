package nuclide

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Inventory maps a nuclide to its atom count. Counts are non-negative reals;
// fractional atoms are expected since the values are statistical populations.
type Inventory map[Nuclide]float64

// NewInventory returns an empty inventory.
func NewInventory() Inventory {
	return make(Inventory)
}

// Clone returns a deep copy of the inventory.
func (inv Inventory) Clone() Inventory {
	out := make(Inventory, len(inv))
	for n, atoms := range inv {
		out[n] = atoms
	}
	return out
}

// Set stores an atom count, rejecting negative values.
func (inv Inventory) Set(n Nuclide, atoms float64) error {
	if atoms < 0 {
		return fmt.Errorf("%w: %s = %g", ErrNegativeAtoms, n, atoms)
	}
	inv[n] = atoms
	return nil
}

// Add accumulates atoms onto an existing entry, creating it if needed.
// Small negative results from floating-point cancellation clamp to zero.
func (inv Inventory) Add(n Nuclide, atoms float64) {
	v := inv[n] + atoms
	if v < 0 {
		v = 0
	}
	inv[n] = v
}

// Total returns the total atom count across all nuclides.
func (inv Inventory) Total() float64 {
	var sum float64
	for _, atoms := range inv {
		sum += atoms
	}
	return sum
}

// Nuclides returns the nuclide keys in lexical order, for deterministic
// iteration and serialization.
func (inv Inventory) Nuclides() []Nuclide {
	keys := make([]Nuclide, 0, len(inv))
	for n := range inv {
		keys = append(keys, n)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// MarshalJSON encodes the inventory as a plain nuclide->atoms object.
func (inv Inventory) MarshalJSON() ([]byte, error) {
	m := make(map[string]float64, len(inv))
	for n, atoms := range inv {
		m[string(n)] = atoms
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal inventory: %w", err)
	}
	return b, nil
}

// UnmarshalJSON decodes a nuclide->atoms object, validating every entry.
func (inv *Inventory) UnmarshalJSON(data []byte) error {
	var m map[string]float64
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("unmarshal inventory: %w", err)
	}
	out := make(Inventory, len(m))
	for raw, atoms := range m {
		n, err := Parse(raw)
		if err != nil {
			return err
		}
		if atoms < 0 {
			return fmt.Errorf("%w: %s = %g", ErrNegativeAtoms, n, atoms)
		}
		out[n] = atoms
	}
	*inv = out
	return nil
}
