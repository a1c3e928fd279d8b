package core

import "errors"

// ErrConfiguration marks settings that can never produce a working loop
// (non-positive tick rate, empty logical resolution). Construction fails with
// an error wrapping it before any loop starts.
var ErrConfiguration = errors.New("invalid configuration")
