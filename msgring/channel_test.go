package msgring

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a2y-d5l/go-rendezvous/errs"
	"github.com/a2y-d5l/go-rendezvous/observability"
)

type failingLocker struct {
	lockErr, unlockErr error
}

func (f *failingLocker) Lock() error {
	return f.lockErr
}

func (f *failingLocker) Unlock() error { return f.unlockErr }

func TestNewChannel_NilBuffer(t *testing.T) {
	ch, err := NewChannel(nil, nil)
	assert.Nil(t, ch)
	assert.ErrorIs(t, err, ErrNilBuffer)
}

func TestChannel_ProducerConsumer(t *testing.T) {
	buf, _ := newTestBuffer(t, 4, 16)
	ch, err := NewChannel(buf, nil)
	require.NoError(t, err)

	const total = 200
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < total; {
			err := ch.Put([]byte(fmt.Sprintf("msg-%04d", i)))
			if errors.Is(err, ErrFull) {
				time.Sleep(time.Microsecond)
				continue
			}
			if !assert.NoError(t, err) {
				return
			}
			i++
		}
	}()

	received := make([]string, 0, total)
	go func() {
		defer wg.Done()
		out := make([]byte, 16)
		for len(received) < total {
			err := ch.Get(out)
			if errors.Is(err, ErrEmpty) {
				time.Sleep(time.Microsecond)
				continue
			}
			if !assert.NoError(t, err) {
				return
			}
			received = append(received, string(out[:8]))
		}
	}()

	wg.Wait()
	require.Len(t, received, total)
	for i, msg := range received {
		assert.Equal(t, fmt.Sprintf("msg-%04d", i), msg)
	}
	n, err := ch.Len()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestChannel_LockFailure(t *testing.T) {
	buf, _ := newTestBuffer(t, 2, 2)
	lockErr := errors.New("lock broke")
	ch, err := NewChannel(buf, &failingLocker{lockErr: lockErr})
	require.NoError(t, err)

	err = ch.Put([]byte("a"))
	assert.ErrorIs(t, err, ErrLockFailed)
	assert.ErrorIs(t, err, lockErr)
	assert.True(t, errs.IsSync(err))
	assert.Zero(t, buf.Len())
}

func TestChannel_UnlockFailure(t *testing.T) {
	buf, _ := newTestBuffer(t, 2, 2)
	unlockErr := errors.New("unlock broke")
	ch, err := NewChannel(buf, &failingLocker{unlockErr: unlockErr})
	require.NoError(t, err)

	err = ch.Put([]byte("a"))
	assert.ErrorIs(t, err, ErrUnlockFailed)
	assert.Equal(t, 1, buf.Len(), "the operation itself completed")

	// An operation error takes precedence over the unlock error.
	_, err = ch.Next()
	require.Error(t, err)
	_, err = ch.Next()
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestChannel_NilHandle(t *testing.T) {
	var ch *Channel
	assert.ErrorIs(t, ch.Put([]byte("a")), ErrNilBuffer)
	assert.Nil(t, ch.Buffer())
}

func TestChannel_ZeroValue(t *testing.T) {
	var ch Channel

	assert.ErrorIs(t, ch.Put([]byte("a")), ErrNilBuffer)
	assert.ErrorIs(t, ch.Get(make([]byte, 4)), ErrNilBuffer)
	_, err := ch.Next()
	assert.ErrorIs(t, err, ErrNilBuffer)
	_, err = ch.Len()
	assert.ErrorIs(t, err, ErrNilBuffer)
	assert.True(t, errs.IsInvalid(err))
}

func TestChannel_SharedLockAcrossHandles(t *testing.T) {
	const writers, perWriter = 4, 50
	created, mem := newTestBuffer(t, writers*perWriter, 8)
	attached, err := Attach(mem, WithLogger(observability.Discard()))
	require.NoError(t, err)

	var mu sync.Mutex
	lock := MutexLocker(&mu)
	a, err := NewChannel(created, lock)
	require.NoError(t, err)
	b, err := NewChannel(attached, lock)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for w := range writers {
		ch := a
		if w%2 == 1 {
			ch = b
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perWriter {
				assert.NoError(t, ch.Put([]byte(fmt.Sprintf("%d-%03d", w, i))))
			}
		}()
	}
	wg.Wait()

	n, err := a.Len()
	require.NoError(t, err)
	assert.Equal(t, writers*perWriter, n, "no put was lost to an unsynchronised header update")

	seen := make(map[string]bool)
	for range n {
		msg, err := b.Next()
		require.NoError(t, err)
		seen[string(msg[:5])] = true
	}
	assert.Len(t, seen, writers*perWriter)
}
