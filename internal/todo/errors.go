package todo

import "errors"

// Errors returned by todo list operations.
var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrTextEmpty       = errors.New("task text cannot be empty")
	ErrInvalidPriority = errors.New("invalid priority (must be low, medium or high)")
	ErrInvalidFilter   = errors.New("invalid filter (must be all, active or completed)")
	ErrInvalidFormat   = errors.New("invalid export format (must be json or yaml)")
	ErrInvalidImport   = errors.New("invalid import file")
)
