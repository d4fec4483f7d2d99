package assignment

import "errors"

var (
	// ErrValidation - the input was malformed (missing city or a
	// non-finite position); rejected before any computation.
	ErrValidation = errors.New("invalid assignment input")

	// ErrNotFound - a referenced store or order does not exist.
	ErrNotFound = errors.New("not found")
)

// IsValidation reports whether err is an input-validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNotFound reports whether err is a missing-record failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
