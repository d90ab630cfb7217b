package decay

import "errors"

// Sentinel kinds for decay errors.
var (
	// ErrNegativeInterval rejects decaying backward in time.
	ErrNegativeInterval = errors.New("negative decay interval")
)
