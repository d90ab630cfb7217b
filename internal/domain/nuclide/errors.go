package nuclide

import "errors"

// Sentinel kinds for nuclide and composition errors.
var (
	ErrBadNuclide       = errors.New("malformed nuclide identifier")
	ErrNegativeAtoms    = errors.New("negative atom count")
	ErrEmptyComposition = errors.New("composition has no entries")
	ErrFractionSum      = errors.New("composition fractions do not sum to 1")
)
