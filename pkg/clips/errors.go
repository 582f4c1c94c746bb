package clips

import "errors"

var (
	// ErrNotFound is returned when a clip is not registered.
	ErrNotFound = errors.New("clip not found")

	// ErrInvalidClip is returned when a clip file is malformed.
	ErrInvalidClip = errors.New("invalid clip data")
)
