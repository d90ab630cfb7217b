package repository

import "errors"

// Sentinel kinds for cache errors.
var (
	ErrNotFound  = errors.New("result not found")
	ErrNilResult = errors.New("nil result")
)
