//go:build unix

package shm

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"

	"github.com/a2y-d5l/go-rendezvous/errs"
)

// FileLock is an exclusive advisory lock on a file, held through its own open
// file description. Two FileLocks on the same path exclude each other whether
// they live in one process or in two.
//
// FileLock satisfies msgring.Locker.
type FileLock struct {
	f *os.File
}

// NewFileLock opens path for locking. The file must exist.
func NewFileLock(path string) (*FileLock, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, errs.WrapResource(err, component, "NewFileLock")
	}
	return &FileLock{f: f}, nil
}

// Lock blocks until the lock is held.
func (l *FileLock) Lock() error {
	if l == nil || l.f == nil {
		return errs.WrapInvalid(ErrNilLock, component, "Lock")
	}
	return errs.WrapSync(flock(l.f, unix.LOCK_EX), component, "Lock")
}

// Unlock releases the lock.
func (l *FileLock) Unlock() error {
	if l == nil || l.f == nil {
		return errs.WrapInvalid(ErrNilLock, component, "Unlock")
	}
	return errs.WrapSync(flock(l.f, unix.LOCK_UN), component, "Unlock")
}

// Close releases the lock, if held, and closes the file.
func (l *FileLock) Close() error {
	if l == nil || l.f == nil {
		return errs.WrapInvalid(ErrNilLock, component, "Close")
	}
	return errs.WrapResource(l.f.Close(), component, "Close")
}

func flock(f *os.File, how int) error {
	for {
		err := unix.Flock(int(f.Fd()), how)
		if !errors.Is(err, unix.EINTR) {
			return err
		}
	}
}
