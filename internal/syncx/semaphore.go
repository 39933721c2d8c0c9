package syncx

// Semaphore is a counting semaphore. Available permits are tokens buffered in a
// channel, so the count can start anywhere between zero and the maximum.
type Semaphore struct {
	permits chan struct{}
}

// NewSemaphore creates a semaphore holding initial of at most max permits.
func NewSemaphore(max, initial int) (*Semaphore, error) {
	if max <= 0 || initial < 0 || initial > max {
		return nil, ErrInvalidPermits
	}

	s := &Semaphore{permits: make(chan struct{}, max)}
	for range initial {
		s.permits <- struct{}{}
	}
	return s, nil
}

// Acquire takes a permit, blocking until one is released or done is closed.
// A closed done wins over an available permit.
func (s *Semaphore) Acquire(done <-chan struct{}) error {
	select {
	case <-done:
		return ErrSemaphoreClosed
	default:
	}

	select {
	case <-s.permits:
		return nil
	case <-done:
		return ErrSemaphoreClosed
	}
}

// TryAcquire attempts to take a permit without blocking.
func (s *Semaphore) TryAcquire() bool {
	select {
	case <-s.permits:
		return true
	default:
		return false
	}
}

// Release returns a permit, waking one blocked Acquire if any.
func (s *Semaphore) Release() error {
	select {
	case s.permits <- struct{}{}:
		return nil
	default:
		return ErrSemaphoreOverflow
	}
}

// Available returns the number of permits that can be acquired without blocking.
func (s *Semaphore) Available() int {
	return len(s.permits)
}

// Max returns the permit ceiling.
func (s *Semaphore) Max() int {
	return cap(s.permits)
}
