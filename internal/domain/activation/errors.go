package activation

import "errors"

// Sentinel kinds for activation errors. Invalid-query conditions are
// rejected immediately; data-unavailable conditions surface inside a
// partial Result instead.
var (
	ErrNoEvents               = errors.New("irradiation history is empty")
	ErrUnorderedEvents        = errors.New("irradiation events out of chronological order")
	ErrTargetBeforeReference  = errors.New("target date precedes the last irradiation end")
	ErrNoInventory            = errors.New("result carries no inventory or activities")
	errAllIrradiationsSkipped = errors.New("no flux data for any irradiation")
)
