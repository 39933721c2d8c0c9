// Package syncx provides the low-level synchronization helpers behind the
// go-rendezvous primitives.
//
// Key Components:
//
// • Semaphore: channel-backed counting semaphore with an initial permit count and
// close-to-release semantics, used by the semaphore queue variant
// • IsNil: nil detection for generic element values
package syncx
