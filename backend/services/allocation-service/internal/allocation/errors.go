package allocation

import "errors"

// Both errors abort a run before any decision is made.
var (
	ErrInvalidInput  = errors.New("invalid_input")
	ErrInvalidMethod = errors.New("invalid_method")
)
