package queue

import "errors"

const component = "queue"

// Queue errors
var (
	ErrNilQueue        = errors.New("queue is nil")
	ErrInvalidCapacity = errors.New("queue capacity must be at least 1")
	ErrNilItem         = errors.New("queue item is nil")
	ErrClosed          = errors.New("queue is closed")
	ErrFull            = errors.New("queue is full")
	ErrEmpty           = errors.New("queue is empty")
	ErrSemaphore       = errors.New("queue semaphore failed")
	ErrUnknownVariant  = errors.New("unknown queue variant")
)
