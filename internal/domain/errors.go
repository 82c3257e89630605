package domain

import "errors"

var (
	// ErrInvalidCatalog reports an empty or malformed ship list.
	ErrInvalidCatalog = errors.New("invalid ship catalog")
	// ErrDimensionMismatch reports a grid or board whose size does not line up.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrNoTargetAvailable reports a board with no unknown cell left to fire at.
	ErrNoTargetAvailable = errors.New("no target available")
	// ErrBreakdownUninitialized reports a per-ship board requested before the search allocated it.
	ErrBreakdownUninitialized = errors.New("per-ship breakdown not initialised")
	ErrUnknownShip            = errors.New("ship not in catalog")
	ErrInvalidGlyph           = errors.New("unknown cell glyph")
	ErrNotFound               = errors.New("position not found")
)
