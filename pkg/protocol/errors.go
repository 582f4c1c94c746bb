package protocol

import "errors"

// ErrMissingType is returned by ParseMessage for messages without a type.
var ErrMissingType = errors.New("message has no type")
