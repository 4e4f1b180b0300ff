package repl

import "errors"

// Sentinel errors.
var (
	ErrOutOfBounds  = errors.New("history index out of range")
	ErrEditDeclined = errors.New("data edit declined")
	ErrNotMapping   = errors.New("edited data is not a mapping")
)
