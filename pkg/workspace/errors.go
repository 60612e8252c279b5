package workspace

import "errors"

// Sentinel errors returned by workspace operations.
//
// All of them are returned before any state is touched, so a failed
// operation never leaves the row partially shifted.
var (
	// ErrOutOfRange indicates a slot index outside [0, Capacity).
	ErrOutOfRange = errors.New("workspace: index out of range")

	// ErrInvalidValue indicates a digit outside [0, 9].
	ErrInvalidValue = errors.New("workspace: value must be between 0 and 9")

	// ErrInvalidPattern indicates an empty search pattern, malformed pattern
	// text, or a pattern element outside [0, 9].
	ErrInvalidPattern = errors.New("workspace: invalid pattern")

	// ErrEmptySlot indicates a delete on an unoccupied slot.
	ErrEmptySlot = errors.New("workspace: no element at index")

	// ErrInvalidLevel indicates a level number without a configuration.
	ErrInvalidLevel = errors.New("workspace: invalid level")

	// ErrFinalLevel indicates there is no level after the current one.
	ErrFinalLevel = errors.New("workspace: already at final level")
)
