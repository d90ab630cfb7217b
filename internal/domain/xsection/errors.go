package xsection

import "errors"

// Sentinel kinds for cross-section resolution errors.
var (
	// ErrUnresolved means every data source reported not-found for the
	// nuclide/reaction pair.
	ErrUnresolved = errors.New("cross section unresolved by all sources")
)
