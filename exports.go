package rendezvous

// Re-export core types from subpackages
import (
	"github.com/a2y-d5l/go-rendezvous/barrier"
	"github.com/a2y-d5l/go-rendezvous/msgring"
	"github.com/a2y-d5l/go-rendezvous/queue"
)

// Barrier types
type Barrier = barrier.Barrier
type BarrierOption = barrier.Option

// Message ring types
type MessageBuffer = msgring.Buffer
type MessageChannel = msgring.Channel
type MessageOption = msgring.Option
type Locker = msgring.Locker

// Queue types
type BoundedQueue[T any] = queue.BoundedQueue[T]
type CondQueue[T any] = queue.CondQueue[T]
type SemQueue[T any] = queue.SemQueue[T]
type QueueOption[T any] = queue.Option[T]
type QueueStats = queue.Stats
type Variant = queue.Variant

// MessageHeaderSize is the number of bytes a message ring reserves ahead of its slots.
const MessageHeaderSize = msgring.HeaderSize

// Queue variants
const (
	VariantCond      = queue.VariantCond
	VariantSemaphore = queue.VariantSemaphore
)

// Constructors
var (
	NewBarrier          = barrier.New
	NewMessageBuffer    = msgring.New
	AttachMessageBuffer = msgring.Attach
	NewMessageChannel   = msgring.NewChannel
	MutexLocker         = msgring.MutexLocker
	ParseVariant        = queue.ParseVariant
)

// NewQueue creates a bounded blocking queue of the given variant.
func NewQueue[T any](variant Variant, capacity int, opts ...QueueOption[T]) (BoundedQueue[T], error) {
	return queue.New(variant, capacity, opts...)
}

// NewCondQueue creates a condition variable queue.
func NewCondQueue[T any](capacity int, opts ...QueueOption[T]) (*CondQueue[T], error) {
	return queue.NewCondQueue(capacity, opts...)
}

// NewSemQueue creates a semaphore queue.
func NewSemQueue[T any](capacity int, opts ...QueueOption[T]) (*SemQueue[T], error) {
	return queue.NewSemQueue(capacity, opts...)
}
