package twisty

import (
	"github.com/SeamusWaldron/twisty/internal/cube"
	"github.com/SeamusWaldron/twisty/internal/sequencer"
)

// Sentinel errors for the twisty package.
var (
	// Request errors
	ErrInvalidFace      = cube.ErrInvalidFace
	ErrInvalidDirection = cube.ErrInvalidDirection
	ErrInvalidCount     = sequencer.ErrInvalidCount

	// Parsing errors
	ErrInvalidNotation = cube.ErrInvalidNotation

	// Sequencing errors
	ErrCancelled = sequencer.ErrCancelled
)
