package syncx

import "errors"

// Semaphore errors
var (
	ErrInvalidPermits    = errors.New("semaphore permits out of range")
	ErrSemaphoreClosed   = errors.New("semaphore closed")
	ErrSemaphoreOverflow = errors.New("semaphore released past its maximum")
)
