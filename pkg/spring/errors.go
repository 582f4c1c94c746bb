package spring

import "errors"

// ErrUnknownIntegrator is returned by ParseKind for unrecognized names.
var ErrUnknownIntegrator = errors.New("unknown integrator")
