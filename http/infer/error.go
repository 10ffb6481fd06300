package infer

import "errors"

var (
	// ErrMissingSource indicates a delegate parameter name has no entry in the Sources bag.
	ErrMissingSource = errors.New("missing inference source")

	// ErrTypeConversion indicates a path segment could not be coerced to the expected type.
	ErrTypeConversion = errors.New("cannot convert")
)
