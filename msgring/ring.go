package msgring

import (
	"log/slog"

	"github.com/a2y-d5l/go-rendezvous/errs"
	"github.com/a2y-d5l/go-rendezvous/internal/ringidx"
	"github.com/a2y-d5l/go-rendezvous/observability"
)

// Buffer is a FIFO of fixed-size messages stored entirely inside a caller
// supplied byte region. The header (indices, count, geometry) lives at the
// start of the region, so any party mapping the same bytes sees the same ring.
//
// Buffer does no locking of its own. Wrap it in a Channel when more than one
// goroutine or process touches the region.
type Buffer struct {
	mem     []byte
	hdr     header
	ring    ringidx.Ring
	msgSize int

	log     *observability.ComponentLogger
	metrics *observability.RingMetrics
}

// New formats mem as an empty ring of numMessages slots of maxMessageSize
// bytes each. Any previous content of the header is overwritten.
func New(mem []byte, numMessages, maxMessageSize int, opts ...Option) (*Buffer, error) {
	if mem == nil {
		return nil, errs.WrapInvalid(ErrNilMemory, component, "New")
	}
	if len(mem) == 0 || numMessages <= 0 || maxMessageSize <= 0 {
		return nil, errs.WrapInvalid(ErrZeroSize, component, "New")
	}
	required, ok := RegionSize(numMessages, maxMessageSize)
	if !ok {
		return nil, errs.WrapInvalid(ErrGeometryOverflow, component, "New")
	}
	if len(mem) < required {
		return nil, errs.WrapInvalid(ErrRegionTooSmall, component, "New")
	}

	hdr := header(mem[:HeaderSize])
	hdr.init(len(mem), numMessages, maxMessageSize)

	b := newBuffer(mem, numMessages, maxMessageSize, opts)
	b.log.LogCreated(
		observability.MessageCount(int64(numMessages)),
		observability.MessageSize(maxMessageSize),
	)
	return b, nil
}

// Attach opens a ring previously formatted by New in mem, typically from a
// second mapping of the same shared region. The header is validated but left
// untouched.
func Attach(mem []byte, opts ...Option) (*Buffer, error) {
	if mem == nil {
		return nil, errs.WrapInvalid(ErrNilMemory, component, "Attach")
	}
	if len(mem) < HeaderSize {
		return nil, errs.WrapInvalid(ErrRegionTooSmall, component, "Attach")
	}

	hdr := header(mem[:HeaderSize])
	if hdr.magic() != headerMagic || hdr.version() != layoutVersion {
		return nil, errs.WrapInvalid(ErrBadHeader, component, "Attach")
	}
	n, size := hdr.maxItems(), hdr.msgSize()
	required, ok := RegionSize(n, size)
	if !ok || required > len(mem) || hdr.regionSize() > len(mem) {
		return nil, errs.WrapInvalid(ErrBadHeader, component, "Attach")
	}

	b := newBuffer(mem, n, size, opts)
	if _, _, _, err := b.state("Attach"); err != nil {
		return nil, err
	}
	b.log.LogCreated(
		observability.MessageCount(int64(n)),
		observability.MessageSize(size),
		slog.Bool("attached", true),
	)
	return b, nil
}

func newBuffer(mem []byte, numMessages, maxMessageSize int, opts []Option) *Buffer {
	cfg := applyOptions(opts)
	return &Buffer{
		mem:     mem,
		hdr:     header(mem[:HeaderSize]),
		ring:    ringidx.New(numMessages),
		msgSize: maxMessageSize,
		log:     observability.NewComponentLogger(cfg.logger, component, cfg.name),
		metrics: observability.NewRingMetrics(cfg.collector, cfg.name),
	}
}

// usable reports whether b was built by New or Attach. The zero Buffer has
// no region and behaves like a nil one.
func (b *Buffer) usable() bool {
	return b != nil && len(b.hdr) >= HeaderSize
}

// state reads head, tail and count from the region and checks they are
// consistent with the geometry.
func (b *Buffer) state(op string) (head, tail, count int, err error) {
	head, tail, count = b.hdr.head(), b.hdr.tail(), b.hdr.count()
	if !b.ring.Valid(head) || !b.ring.Valid(tail) || count < 0 || count > b.ring.Size() {
		return 0, 0, 0, errs.WrapSync(ErrCorrupt, component, op)
	}
	return head, tail, count, nil
}

func (b *Buffer) slot(i int) []byte {
	off := HeaderSize + i*b.msgSize
	return b.mem[off : off+b.msgSize]
}

// Put copies data into the slot at the tail. Payloads shorter than the slot
// size are zero padded.
func (b *Buffer) Put(data []byte) error {
	if !b.usable() {
		return errs.WrapInvalid(ErrNilBuffer, component, "Put")
	}
	if data == nil {
		return errs.WrapInvalid(ErrNilMessage, component, "Put")
	}
	if len(data) > b.msgSize {
		return errs.WrapInvalid(ErrMessageTooLarge, component, "Put")
	}

	_, tail, count, err := b.state("Put")
	if err != nil {
		return err
	}
	if count == b.ring.Size() {
		b.metrics.RecordRejected("put")
		return errs.WrapCapacity(ErrFull, component, "Put")
	}

	dst := b.slot(tail)
	n := copy(dst, data)
	clear(dst[n:])

	b.hdr.setTail(b.ring.Next(tail))
	b.hdr.setCount(count + 1)
	b.metrics.RecordPut(count + 1)
	return nil
}

// Get copies the message at the head into out and frees its slot.
// out must hold at least MessageSize bytes.
func (b *Buffer) Get(out []byte) error {
	if !b.usable() {
		return errs.WrapInvalid(ErrNilBuffer, component, "Get")
	}
	if out == nil {
		return errs.WrapInvalid(ErrNilMessage, component, "Get")
	}
	if len(out) < b.msgSize {
		return errs.WrapInvalid(ErrShortBuffer, component, "Get")
	}

	head, _, count, err := b.state("Get")
	if err != nil {
		return err
	}
	if count == 0 {
		b.metrics.RecordRejected("get")
		return errs.WrapCapacity(ErrEmpty, component, "Get")
	}

	copy(out, b.slot(head))

	b.hdr.setHead(b.ring.Next(head))
	b.hdr.setCount(count - 1)
	b.metrics.RecordGet(count - 1)
	return nil
}

// Next removes the message at the head and returns it in a new slice of
// MessageSize bytes.
func (b *Buffer) Next() ([]byte, error) {
	if !b.usable() {
		return nil, errs.WrapInvalid(ErrNilBuffer, component, "Next")
	}
	out := make([]byte, b.msgSize)
	if err := b.Get(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Reset empties the ring. Slot contents are left in place.
func (b *Buffer) Reset() error {
	if !b.usable() {
		return errs.WrapInvalid(ErrNilBuffer, component, "Reset")
	}
	b.hdr.setHead(0)
	b.hdr.setTail(0)
	b.hdr.setCount(0)
	return nil
}

// Len returns the number of stored messages.
func (b *Buffer) Len() int {
	if !b.usable() {
		return 0
	}
	return b.hdr.count()
}

// Cap returns the number of slots.
func (b *Buffer) Cap() int {
	if !b.usable() {
		return 0
	}
	return b.ring.Size()
}

// MessageSize returns the slot size in bytes.
func (b *Buffer) MessageSize() int {
	if !b.usable() {
		return 0
	}
	return b.msgSize
}

// RegionSize returns the length of the region the ring was formatted in.
func (b *Buffer) RegionSize() int {
	if !b.usable() {
		return 0
	}
	return b.hdr.regionSize()
}

// IsFull reports whether Put would fail with ErrFull.
func (b *Buffer) IsFull() bool {
	return b.usable() && b.hdr.count() >= b.ring.Size()
}

// IsEmpty reports whether Get would fail with ErrEmpty.
func (b *Buffer) IsEmpty() bool {
	return !b.usable() || b.hdr.count() == 0
}
