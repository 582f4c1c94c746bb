package sway

import "errors"

var (
	// ErrUnknownSpace is returned by ParseSpace for unrecognized names.
	ErrUnknownSpace = errors.New("unknown rotation space")

	// ErrUnknownPreset is returned by Preset for unrecognized names.
	ErrUnknownPreset = errors.New("unknown preset")
)
