package library

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrLoadLibrary = errors.New("load library failed")
	ErrBadEntry    = errors.New("invalid library entry")
)
