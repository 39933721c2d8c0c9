package msgring

import (
	"encoding/binary"
	"math"
)

// HeaderSize is the number of bytes at the start of a region reserved for the
// ring header. Slot i begins at byte HeaderSize + i*messageSize.
const HeaderSize = 56

const (
	headerMagic   uint32 = 0x474e524d // "MRNG" little-endian
	layoutVersion uint32 = 1
)

// Header field offsets. All fields are little-endian.
const (
	offMagic    = 0
	offVersion  = 4
	offRegion   = 8
	offHead     = 16
	offTail     = 24
	offMaxItems = 32
	offMsgSize  = 40
	offCount    = 48
)

var le = binary.LittleEndian

// RegionSize returns the number of bytes needed for a ring of numMessages slots
// of maxMessageSize bytes each. ok is false if the size does not fit in an int.
func RegionSize(numMessages, maxMessageSize int) (size int, ok bool) {
	if numMessages <= 0 || maxMessageSize <= 0 {
		return 0, false
	}
	if numMessages > (math.MaxInt-HeaderSize)/maxMessageSize {
		return 0, false
	}
	return HeaderSize + numMessages*maxMessageSize, true
}

// header is a view of the header bytes of a region.
type header []byte

func (h header) magic() uint32   { return le.Uint32(h[offMagic:]) }
func (h header) version() uint32 { return le.Uint32(h[offVersion:]) }
func (h header) regionSize() int { return int(le.Uint64(h[offRegion:])) }
func (h header) head() int       { return int(le.Uint64(h[offHead:])) }
func (h header) tail() int       { return int(le.Uint64(h[offTail:])) }
func (h header) maxItems() int   { return int(le.Uint64(h[offMaxItems:])) }
func (h header) msgSize() int    { return int(le.Uint64(h[offMsgSize:])) }
func (h header) count() int      { return int(le.Uint64(h[offCount:])) }

func (h header) setHead(v int)  { le.PutUint64(h[offHead:], uint64(v)) }
func (h header) setTail(v int)  { le.PutUint64(h[offTail:], uint64(v)) }
func (h header) setCount(v int) { le.PutUint64(h[offCount:], uint64(v)) }

func (h header) init(regionSize, maxItems, msgSize int) {
	le.PutUint32(h[offMagic:], headerMagic)
	le.PutUint32(h[offVersion:], layoutVersion)
	le.PutUint64(h[offRegion:], uint64(regionSize))
	le.PutUint64(h[offMaxItems:], uint64(maxItems))
	le.PutUint64(h[offMsgSize:], uint64(msgSize))
	h.setHead(0)
	h.setTail(0)
	h.setCount(0)
}
