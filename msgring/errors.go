package msgring

import "errors"

const component = "msgring"

// Message ring errors
var (
	ErrNilBuffer        = errors.New("message ring is nil")
	ErrNilMemory        = errors.New("memory region is nil")
	ErrZeroSize         = errors.New("region size, message count and message size must be positive")
	ErrRegionTooSmall   = errors.New("memory region too small for header and slots")
	ErrGeometryOverflow = errors.New("message count times message size overflows")
	ErrBadHeader        = errors.New("memory region does not hold a valid ring header")
	ErrCorrupt          = errors.New("ring header indices out of range")
	ErrNilMessage       = errors.New("message buffer is nil")
	ErrMessageTooLarge  = errors.New("message larger than slot size")
	ErrShortBuffer      = errors.New("output buffer smaller than slot size")
	ErrFull             = errors.New("message ring is full")
	ErrEmpty            = errors.New("message ring is empty")
	ErrLockFailed       = errors.New("channel lock failed")
	ErrUnlockFailed     = errors.New("channel unlock failed")
)
