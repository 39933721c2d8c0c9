package msgring

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a2y-d5l/go-rendezvous/errs"
	"github.com/a2y-d5l/go-rendezvous/observability"
)

func newTestBuffer(t *testing.T, n, size int, opts ...Option) (*Buffer, []byte) {
	t.Helper()
	region, ok := RegionSize(n, size)
	require.True(t, ok)
	mem := make([]byte, region)
	opts = append([]Option{WithLogger(observability.Discard())}, opts...)
	b, err := New(mem, n, size, opts...)
	require.NoError(t, err)
	return b, mem
}

func TestRegionSize(t *testing.T) {
	size, ok := RegionSize(5, 6)
	assert.True(t, ok)
	assert.Equal(t, HeaderSize+30, size)

	_, ok = RegionSize(0, 6)
	assert.False(t, ok)
	_, ok = RegionSize(1<<62, 1<<10)
	assert.False(t, ok)
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mem     []byte
		n, size int
		want    error
	}{
		{"nil memory", nil, 1, 1, ErrNilMemory},
		{"empty memory", []byte{}, 1, 1, ErrZeroSize},
		{"zero messages", make([]byte, 128), 0, 8, ErrZeroSize},
		{"zero message size", make([]byte, 128), 8, 0, ErrZeroSize},
		{"region too small", make([]byte, HeaderSize+9), 2, 5, ErrRegionTooSmall},
		{"overflow", make([]byte, 128), 1 << 62, 1 << 10, ErrGeometryOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := New(tt.mem, tt.n, tt.size)
			assert.Nil(t, b)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, errs.IsInvalid(err))
		})
	}
}

func TestBuffer_FillDrainWrap(t *testing.T) {
	b, _ := newTestBuffer(t, 5, 6)
	msgs := []string{"AAAAAA", "BBBBBB", "CCCCCC", "DDDDDD", "EEEEEE"}

	for _, m := range msgs {
		require.NoError(t, b.Put([]byte(m)))
	}
	assert.True(t, b.IsFull())
	assert.Equal(t, 5, b.Len())

	err := b.Put([]byte("FFFFFF"))
	assert.ErrorIs(t, err, ErrFull)
	assert.True(t, errs.IsCapacity(err))

	out := make([]byte, 6)
	for _, m := range msgs[:2] {
		require.NoError(t, b.Get(out))
		assert.Equal(t, m, string(out))
	}

	// Two more puts wrap the tail past the end of the slot array.
	require.NoError(t, b.Put([]byte("FFFFFF")))
	require.NoError(t, b.Put([]byte("GGGGGG")))
	assert.True(t, b.IsFull())

	for _, m := range []string{"CCCCCC", "DDDDDD", "EEEEEE", "FFFFFF", "GGGGGG"} {
		got, err := b.Next()
		require.NoError(t, err)
		assert.Equal(t, m, string(got))
	}
	assert.True(t, b.IsEmpty())

	err = b.Get(out)
	assert.ErrorIs(t, err, ErrEmpty)
	assert.True(t, errs.IsCapacity(err))
}

func TestBuffer_SlotLayout(t *testing.T) {
	b, mem := newTestBuffer(t, 3, 4)

	require.NoError(t, b.Put([]byte("ab")))
	require.NoError(t, b.Put([]byte("wxyz")))

	assert.Equal(t, []byte{'a', 'b', 0, 0}, mem[HeaderSize:HeaderSize+4])
	assert.Equal(t, []byte("wxyz"), mem[HeaderSize+4:HeaderSize+8])
}

func TestBuffer_ShortMessagePadded(t *testing.T) {
	b, _ := newTestBuffer(t, 2, 8)

	require.NoError(t, b.Put([]byte("12345678")))
	_, err := b.Next()
	require.NoError(t, err)

	// The slot is reused on wrap; stale bytes must not leak into the short message.
	require.NoError(t, b.Put([]byte("x")))
	require.NoError(t, b.Put([]byte("yy")))
	got, err := b.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte("x\x00\x00\x00\x00\x00\x00\x00"), got)
	got, err = b.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte("yy\x00\x00\x00\x00\x00\x00"), got)
}

func TestBuffer_InvalidArguments(t *testing.T) {
	b, _ := newTestBuffer(t, 2, 4)

	assert.ErrorIs(t, b.Put(nil), ErrNilMessage)
	assert.ErrorIs(t, b.Put([]byte("too long")), ErrMessageTooLarge)
	assert.ErrorIs(t, b.Get(nil), ErrNilMessage)
	assert.ErrorIs(t, b.Get(make([]byte, 3)), ErrShortBuffer)
	assert.Zero(t, b.Len(), "rejected calls must not change the ring")

	var nilBuf *Buffer
	assert.ErrorIs(t, nilBuf.Put([]byte("a")), ErrNilBuffer)
	assert.ErrorIs(t, nilBuf.Get(make([]byte, 4)), ErrNilBuffer)
	_, err := nilBuf.Next()
	assert.ErrorIs(t, err, ErrNilBuffer)
	assert.ErrorIs(t, nilBuf.Reset(), ErrNilBuffer)
	assert.Zero(t, nilBuf.Len())
	assert.Zero(t, nilBuf.Cap())
	assert.True(t, nilBuf.IsEmpty())
	assert.False(t, nilBuf.IsFull())
}

func TestBuffer_ZeroValue(t *testing.T) {
	var b Buffer

	assert.ErrorIs(t, b.Put([]byte("a")), ErrNilBuffer)
	assert.ErrorIs(t, b.Get(make([]byte, 4)), ErrNilBuffer)
	_, err := b.Next()
	assert.ErrorIs(t, err, ErrNilBuffer)
	assert.ErrorIs(t, b.Reset(), ErrNilBuffer)

	assert.Zero(t, b.Len())
	assert.Zero(t, b.Cap())
	assert.Zero(t, b.RegionSize())
	assert.True(t, b.IsEmpty())
	assert.False(t, b.IsFull())
}

func TestBuffer_Reset(t *testing.T) {
	b, _ := newTestBuffer(t, 3, 2)
	require.NoError(t, b.Put([]byte("aa")))
	require.NoError(t, b.Put([]byte("bb")))

	require.NoError(t, b.Reset())
	assert.True(t, b.IsEmpty())
	require.NoError(t, b.Put([]byte("cc")))
	got, err := b.Next()
	require.NoError(t, err)
	assert.Equal(t, "cc", string(got))
}

func TestAttach_SharesState(t *testing.T) {
	writer, mem := newTestBuffer(t, 4, 3)
	require.NoError(t, writer.Put([]byte("one")))
	require.NoError(t, writer.Put([]byte("two")))

	reader, err := Attach(mem, WithLogger(observability.Discard()))
	require.NoError(t, err)
	assert.Equal(t, 4, reader.Cap())
	assert.Equal(t, 3, reader.MessageSize())
	assert.Equal(t, len(mem), reader.RegionSize())
	assert.Equal(t, 2, reader.Len())

	got, err := reader.Next()
	require.NoError(t, err)
	assert.Equal(t, "one", string(got))
	assert.Equal(t, 1, writer.Len(), "state lives in the region, not the handle")
}

func TestAttach_BadHeader(t *testing.T) {
	_, err := Attach(make([]byte, HeaderSize-1))
	assert.ErrorIs(t, err, ErrRegionTooSmall)

	_, err = Attach(make([]byte, 128))
	assert.ErrorIs(t, err, ErrBadHeader)

	_, mem := newTestBuffer(t, 4, 8)
	_, err = Attach(mem[:len(mem)-1])
	assert.ErrorIs(t, err, ErrBadHeader)
}

func TestBuffer_CorruptIndices(t *testing.T) {
	b, mem := newTestBuffer(t, 2, 2)
	le.PutUint64(mem[offHead:], 7)

	err := b.Put([]byte("a"))
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.True(t, errs.IsSync(err))

	_, err = Attach(mem)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestBuffer_Metrics(t *testing.T) {
	collector := observability.NewInMemoryMetricsCollector()
	b, _ := newTestBuffer(t, 1, 1, WithMetrics(collector, "ipc"))

	require.NoError(t, b.Put([]byte("a")))
	assert.Error(t, b.Put([]byte("b")))
	_, err := b.Next()
	require.NoError(t, err)

	labels := map[string]string{"ring": "ipc"}
	puts, ok := collector.GetMetric(observability.MetricRingPuts, labels)
	require.True(t, ok)
	assert.Equal(t, 1.0, puts.Value)

	depth, ok := collector.GetMetric(observability.MetricRingDepth, labels)
	require.True(t, ok)
	assert.Equal(t, 0.0, depth.Value)

	rejected, ok := collector.GetMetric(observability.MetricRingRejected, map[string]string{"ring": "ipc", "op": "put"})
	require.True(t, ok)
	assert.Equal(t, 1.0, rejected.Value)
}

func BenchmarkBuffer_PutGet(b *testing.B) {
	region, _ := RegionSize(64, 128)
	buf, err := New(make([]byte, region), 64, 128, WithLogger(observability.Discard()))
	if err != nil {
		b.Fatalf("Failed to create ring: %v", err)
	}
	msg := bytes.Repeat([]byte("x"), 100)
	out := make([]byte, 128)

	b.ResetTimer()
	for range b.N {
		if err := buf.Put(msg); err != nil {
			b.Fatalf("Put failed: %v", err)
		}
		if err := buf.Get(out); err != nil && !errors.Is(err, ErrEmpty) {
			b.Fatalf("Get failed: %v", err)
		}
	}
}
