package entities

import "errors"

// Domain errors
var (
	// Input errors
	ErrInputRequired  = errors.New("input is required")
	ErrEmptyInput     = errors.New("either a file or text is required")
	ErrUnknownKind    = errors.New("unknown input kind")
	ErrFileWithoutRef = errors.New("file input has no content")
)
