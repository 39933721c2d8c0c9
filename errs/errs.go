// Package errs provides the error taxonomy shared by every primitive in go-rendezvous.
//
// Each package keeps its own sentinel errors (queue.ErrFull, barrier.ErrClosed, ...).
// Errors leaving a public operation are additionally wrapped in an *Error that records
// which component and operation produced them and which class of failure they belong
// to, so callers can branch on either:
//
//	if errors.Is(err, queue.ErrClosed) { ... }
//	if errs.IsSync(err) { ... }
package errs

import (
	"errors"
	"fmt"
)

// Class is the classification of a failure for handling purposes.
type Class int

const (
	// Invalid covers uninitialized input: nil handles, nil items or data, zero
	// capacities and thresholds. Detected before any state is touched.
	Invalid Class = iota
	// Sync covers synchronization failures: a closed object, a lock or semaphore
	// that could not be operated. The object should be treated as unusable.
	Sync
	// Capacity covers full writes and empty reads on non-blocking paths.
	Capacity
	// Resource covers allocation and operating system resource failures.
	Resource
)

// String returns the string representation of the class.
func (c Class) String() string {
	switch c {
	case Invalid:
		return "invalid"
	case Sync:
		return "sync"
	case Capacity:
		return "capacity"
	case Resource:
		return "resource"
	default:
		return "unknown"
	}
}

// Error wraps an error with its classification and origin.
type Error struct {
	Class     Class
	Component string
	Op        string
	Err       error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Component, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// New classifies err as coming from component.op. A nil err yields nil.
func New(class Class, component, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Class: class, Component: component, Op: op, Err: err}
}

// WrapInvalid classifies err as an invalid-input error.
func WrapInvalid(err error, component, op string) error {
	return New(Invalid, component, op, err)
}

// WrapSync classifies err as a synchronization error.
func WrapSync(err error, component, op string) error {
	return New(Sync, component, op, err)
}

// WrapCapacity classifies err as a capacity violation.
func WrapCapacity(err error, component, op string) error {
	return New(Capacity, component, op, err)
}

// WrapResource classifies err as a resource failure.
func WrapResource(err error, component, op string) error {
	return New(Resource, component, op, err)
}

// ClassOf returns the class of the outermost classified error in err's chain.
func ClassOf(err error) (Class, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Class, true
	}
	return 0, false
}

// IsInvalid reports whether err is an invalid-input error.
func IsInvalid(err error) bool { return is(err, Invalid) }

// IsSync reports whether err is a synchronization error.
func IsSync(err error) bool { return is(err, Sync) }

// IsCapacity reports whether err is a capacity violation.
func IsCapacity(err error) bool { return is(err, Capacity) }

// IsResource reports whether err is a resource failure.
func IsResource(err error) bool { return is(err, Resource) }

func is(err error, class Class) bool {
	c, ok := ClassOf(err)
	return ok && c == class
}
