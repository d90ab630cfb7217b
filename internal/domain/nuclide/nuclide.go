// Package nuclide contains the core value types shared between layers:
// nuclide identifiers, atom inventories and sample compositions.
package nuclide

import (
	"fmt"
	"strconv"
	"strings"
)

// Nuclide identifies an isotope in element-mass form, e.g. "Au-197".
type Nuclide string

// Parse validates s and returns it as a Nuclide. The expected form is
// "<Element>-<MassNumber>", e.g. "Co-60".
func Parse(s string) (Nuclide, error) {
	s = strings.TrimSpace(s)
	elem, mass, ok := strings.Cut(s, "-")
	if !ok || elem == "" {
		return "", fmt.Errorf("%w: %q", ErrBadNuclide, s)
	}
	n, err := strconv.Atoi(mass)
	if err != nil || n <= 0 {
		return "", fmt.Errorf("%w: %q", ErrBadNuclide, s)
	}
	return Nuclide(elem + "-" + strconv.Itoa(n)), nil
}

// Element returns the element symbol portion of the identifier.
func (n Nuclide) Element() string {
	elem, _, _ := strings.Cut(string(n), "-")
	return elem
}

// MassNumber returns the mass number A, or 0 if the identifier is malformed.
func (n Nuclide) MassNumber() int {
	_, mass, ok := strings.Cut(string(n), "-")
	if !ok {
		return 0
	}
	a, err := strconv.Atoi(mass)
	if err != nil {
		return 0
	}
	return a
}

// String implements fmt.Stringer.
func (n Nuclide) String() string { return string(n) }
