package config

import "errors"

// ErrNoFile is returned by Watch when the path does not exist.
var ErrNoFile = errors.New("config file does not exist")
