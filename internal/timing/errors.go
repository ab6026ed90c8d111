package timing

import "github.com/litescript/ls-timing/internal/geometry"

// Error types are shared with the geometry package so a single errors.Is or
// errors.As check covers the whole pipeline.
type (
	InvalidParameterError = geometry.InvalidParameterError
	ShapeMismatchError    = geometry.ShapeMismatchError
)

var (
	ErrInvalidParameter = geometry.ErrInvalidParameter
	ErrShapeMismatch    = geometry.ErrShapeMismatch
)
