//go:build unix

package shm

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sys/unix"

	"github.com/a2y-d5l/go-rendezvous/errs"
)

// Region is a file backed memory mapping shared between processes. Every
// process that opens the same path sees the same bytes.
type Region struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	mem    []byte
	closed bool
}

// DefaultDir returns the directory used for region files: /dev/shm when it
// exists, the OS temp directory otherwise.
func DefaultDir() string {
	if fi, err := os.Stat("/dev/shm"); err == nil && fi.IsDir() {
		return "/dev/shm"
	}
	return os.TempDir()
}

// Path returns the location of the region called name under DefaultDir.
func Path(name string) string {
	return filepath.Join(DefaultDir(), name)
}

// Create makes a new region file of size bytes at path and maps it. The file
// must not already exist.
func Create(path string, size int) (*Region, error) {
	if size <= 0 {
		return nil, errs.WrapInvalid(ErrInvalidSize, component, "Create")
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, errs.WrapResource(err, component, "Create")
	}
	if err := f.Truncate(int64(size)); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, errs.WrapResource(fmt.Errorf("size region file: %w", err), component, "Create")
	}

	r, err := mapFile(path, f, size)
	if err != nil {
		_ = os.Remove(path)
		return nil, errs.WrapResource(err, component, "Create")
	}
	return r, nil
}

// Open maps an existing region file at its current size.
func Open(path string) (*Region, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, errs.WrapResource(err, component, "Open")
	}
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, errs.WrapResource(err, component, "Open")
	}
	if fi.Size() <= 0 {
		_ = f.Close()
		return nil, errs.WrapInvalid(ErrInvalidSize, component, "Open")
	}

	r, err := mapFile(path, f, int(fi.Size()))
	if err != nil {
		return nil, errs.WrapResource(err, component, "Open")
	}
	return r, nil
}

// mapFile maps f shared and read-write. f is closed on failure.
func mapFile(path string, f *os.File, size int) (*Region, error) {
	mem, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	return &Region{path: path, file: f, mem: mem}, nil
}

// Bytes returns the mapped memory. It must not be used after Close.
func (r *Region) Bytes() []byte {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mem
}

// Path returns the backing file path.
func (r *Region) Path() string {
	if r == nil {
		return ""
	}
	return r.path
}

// Size returns the mapped length in bytes.
func (r *Region) Size() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.mem)
}

// Lock returns a new FileLock on the region's backing file.
func (r *Region) Lock() (*FileLock, error) {
	if r == nil {
		return nil, errs.WrapInvalid(ErrNilRegion, component, "Lock")
	}
	return NewFileLock(r.path)
}

// Close unmaps the region and closes the backing file. The file stays on disk.
func (r *Region) Close() error {
	if r == nil {
		return errs.WrapInvalid(ErrNilRegion, component, "Close")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return errs.WrapResource(ErrClosed, component, "Close")
	}
	r.closed = true

	var result *multierror.Error
	if err := unix.Munmap(r.mem); err != nil {
		result = multierror.Append(result, fmt.Errorf("munmap: %w", err))
	}
	r.mem = nil
	if err := r.file.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("close file: %w", err))
	}
	return errs.WrapResource(result.ErrorOrNil(), component, "Close")
}

// Remove closes the region if still open and deletes its backing file.
func (r *Region) Remove() error {
	if r == nil {
		return errs.WrapInvalid(ErrNilRegion, component, "Remove")
	}

	var result *multierror.Error
	r.mu.Lock()
	open := !r.closed
	r.mu.Unlock()
	if open {
		if err := r.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
		result = multierror.Append(result, err)
	}
	return errs.WrapResource(result.ErrorOrNil(), component, "Remove")
}
