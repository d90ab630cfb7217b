package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrSampleNotFound    = errors.New("sample not found")
	ErrSampleExists      = errors.New("sample already registered")
	ErrOverlappingEvent  = errors.New("irradiation overlaps an existing event for this sample")
	ErrInvalidInterval   = errors.New("irradiation end must be after start")
	ErrCompositionSealed = errors.New("composition is immutable once an irradiation is recorded")
)
