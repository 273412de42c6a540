package wang

import "errors"

var (
	// ErrInvalidTileSet indicates a nil tile set or one without any variants.
	ErrInvalidTileSet = errors.New("wang: tile set has no variants")
	// ErrNoTable indicates a compatibility table was required but never built.
	ErrNoTable = errors.New("wang: compatibility table not built")
	// ErrInvalidSize indicates a grid with zero width or height.
	ErrInvalidSize = errors.New("wang: grid width and height must be at least 1")
	// ErrInvalidPorosity indicates a porosity outside [0,1].
	ErrInvalidPorosity = errors.New("wang: porosity must be within [0,1]")
	// ErrOutOfBounds indicates coordinates outside the grid.
	ErrOutOfBounds = errors.New("wang: coordinates out of bounds")
	// ErrInvalidMask indicates an edge mask above 15.
	ErrInvalidMask = errors.New("wang: edge mask must be within [0,15]")
	// ErrDuplicateMask indicates two distinct tile sources resolve to the same mask.
	ErrDuplicateMask = errors.New("wang: more than one tile source for edge mask")
	// ErrNoGrid indicates an edit was requested before any grid was generated.
	ErrNoGrid = errors.New("wang: no grid generated")
	// ErrUnknownCommand indicates a command name with no registered callback.
	ErrUnknownCommand = errors.New("wang: unknown command")
	// ErrDuplicateCommand indicates a command name registered twice.
	ErrDuplicateCommand = errors.New("wang: command already registered")
)
