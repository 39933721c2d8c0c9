package barrier

import "errors"

const component = "barrier"

// Barrier errors
var (
	ErrNilBarrier       = errors.New("barrier is nil")
	ErrInvalidThreshold = errors.New("barrier threshold must be at least 1")
	ErrClosed           = errors.New("barrier is closed")
)
