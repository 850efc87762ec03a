package cube

import "errors"

// Sentinel errors for the cube package.
var (
	ErrInvalidFace      = errors.New("cube: invalid face id")
	ErrInvalidDirection = errors.New("cube: invalid turn direction")
	ErrInvalidNotation  = errors.New("cube: invalid move notation")
	ErrInvalidCubie     = errors.New("cube: invalid cubie placement")
	ErrInvariant        = errors.New("cube: grid invariant violated")
)
