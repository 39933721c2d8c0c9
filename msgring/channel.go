package msgring

import (
	"fmt"
	"sync"

	"github.com/a2y-d5l/go-rendezvous/errs"
)

// Locker serialises access to a region. Unlike sync.Locker it may fail, which
// lets it be backed by a file or other OS level lock.
type Locker interface {
	Lock() error
	Unlock() error
}

type mutexLocker struct{ l sync.Locker }

func (m mutexLocker) Lock() error   { m.l.Lock(); return nil }
func (m mutexLocker) Unlock() error { m.l.Unlock(); return nil }

// MutexLocker adapts a sync.Locker. A nil l gets a fresh sync.Mutex.
func MutexLocker(l sync.Locker) Locker {
	if l == nil {
		l = new(sync.Mutex)
	}
	return mutexLocker{l: l}
}

// Channel is a Buffer guarded by a Locker. Every operation holds the lock for
// its whole duration.
type Channel struct {
	buf  *Buffer
	lock Locker
}

// NewChannel guards buf with lock. A nil lock gets a mutex private to the
// returned Channel, so it only orders callers of that Channel. Channels over
// the same region, such as one from New and one from Attach on the same bytes,
// must share a Locker to exclude each other: a MutexLocker on a shared mutex
// within a process, or a FileLock from msgring/shm across processes.
func NewChannel(buf *Buffer, lock Locker) (*Channel, error) {
	if buf == nil {
		return nil, errs.WrapInvalid(ErrNilBuffer, component, "NewChannel")
	}
	if lock == nil {
		lock = MutexLocker(nil)
	}
	return &Channel{buf: buf, lock: lock}, nil
}

// Put stores data under the lock.
func (c *Channel) Put(data []byte) error {
	return c.do("Put", func() error { return c.buf.Put(data) })
}

// Get retrieves the oldest message into out under the lock.
func (c *Channel) Get(out []byte) error {
	return c.do("Get", func() error { return c.buf.Get(out) })
}

// Next retrieves the oldest message into a new slice under the lock.
func (c *Channel) Next() ([]byte, error) {
	var msg []byte
	err := c.do("Next", func() error {
		var err error
		msg, err = c.buf.Next()
		return err
	})
	return msg, err
}

// Len returns the number of stored messages, read under the lock.
func (c *Channel) Len() (int, error) {
	var n int
	err := c.do("Len", func() error {
		n = c.buf.Len()
		return nil
	})
	return n, err
}

// Buffer returns the unguarded ring.
func (c *Channel) Buffer() *Buffer {
	if c == nil {
		return nil
	}
	return c.buf
}

func (c *Channel) do(op string, fn func() error) error {
	if c == nil || c.buf == nil || c.lock == nil {
		return errs.WrapInvalid(ErrNilBuffer, component, op)
	}
	if err := c.lock.Lock(); err != nil {
		return errs.WrapSync(fmt.Errorf("%w: %w", ErrLockFailed, err), component, op)
	}
	err := fn()
	if uerr := c.lock.Unlock(); uerr != nil && err == nil {
		err = errs.WrapSync(fmt.Errorf("%w: %w", ErrUnlockFailed, uerr), component, op)
	}
	return err
}
