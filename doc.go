// Package rendezvous provides blocking synchronisation primitives for
// goroutines and a message ring that can be shared between processes.
//
// The primitives live in focused subpackages:
//
//   - github.com/a2y-d5l/go-rendezvous/barrier     - Reusable cyclic barrier
//   - github.com/a2y-d5l/go-rendezvous/queue       - Bounded blocking FIFO queues
//   - github.com/a2y-d5l/go-rendezvous/msgring     - Fixed-size message ring over caller memory
//   - github.com/a2y-d5l/go-rendezvous/msgring/shm - File backed shared memory and file locks
//   - github.com/a2y-d5l/go-rendezvous/workload    - Producer/consumer verification runs
//
// The root package re-exports the common types and constructors.
//
// Example usage:
//
//	b, err := rendezvous.NewBarrier(3)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	q, err := rendezvous.NewQueue[string](rendezvous.VariantCond, 16)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer q.Close()
//
//	go func() { _ = q.Insert("hello") }()
//	msg, err := q.Remove()
package rendezvous
