package service

import "errors"

// Boundary error taxonomy. ErrNotFound and ErrValidation are recovered
// by the handlers and reported as client-facing failures; anything else
// is a store failure and surfaces as such.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)
