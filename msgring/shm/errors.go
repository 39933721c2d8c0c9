package shm

import "errors"

const component = "shm"

// Shared region errors
var (
	ErrInvalidSize = errors.New("region size must be positive")
	ErrClosed      = errors.New("region is closed")
	ErrNilRegion   = errors.New("region is nil")
	ErrNilLock     = errors.New("file lock is nil")
)
