package rendezvous

import (
	"errors"

	"github.com/a2y-d5l/go-rendezvous/barrier"
	"github.com/a2y-d5l/go-rendezvous/errs"
	"github.com/a2y-d5l/go-rendezvous/msgring"
	"github.com/a2y-d5l/go-rendezvous/queue"
)

var (
	// ErrBarrierClosed is returned by Wait on a closed barrier.
	ErrBarrierClosed = barrier.ErrClosed
	// ErrQueueClosed is returned by operations on a closed queue.
	ErrQueueClosed = queue.ErrClosed
	// ErrQueueFull is returned by TryInsert on a full queue.
	ErrQueueFull = queue.ErrFull
	// ErrQueueEmpty is returned by TryRemove on an empty queue.
	ErrQueueEmpty = queue.ErrEmpty
	// ErrRingFull is returned by Put on a full message ring.
	ErrRingFull = msgring.ErrFull
	// ErrRingEmpty is returned by Get on an empty message ring.
	ErrRingEmpty = msgring.ErrEmpty
)

// Error classification helpers
var (
	IsInvalid  = errs.IsInvalid
	IsSync     = errs.IsSync
	IsCapacity = errs.IsCapacity
	IsResource = errs.IsResource
)

// IsClosed reports whether err came from a retired barrier or queue.
func IsClosed(err error) bool {
	return errors.Is(err, barrier.ErrClosed) || errors.Is(err, queue.ErrClosed)
}
