package document

import "errors"

// Sentinel errors returned by document accessors and edit operations.
var (
	// ErrInvalidSelection is returned when an operation's selection
	// precondition does not hold.
	ErrInvalidSelection = errors.New("invalid selection")

	// ErrBlockNotFound is returned when a selection names an unknown block.
	ErrBlockNotFound = errors.New("block not found")

	// ErrOffsetOutOfRange is returned when a selection offset exceeds the
	// block length.
	ErrOffsetOutOfRange = errors.New("offset out of range")
)
