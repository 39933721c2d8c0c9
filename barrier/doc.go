// Package barrier implements a cyclic barrier: a reusable rendezvous point that
// releases a fixed number of goroutines together.
//
// The protocol is increment, compare, broadcast, reset. Every arrival increments
// the waiting count under a mutex; arrivals that leave the count below the
// threshold park on a condition variable; the arrival that reaches the threshold
// resets the count, advances the cycle and broadcasts. Parked goroutines wait for
// the cycle to advance rather than for a wakeup, so spurious wakeups are harmless.
//
//	b, err := barrier.New(workers + 1)
//	if err != nil {
//		return err
//	}
//	defer b.Close()
//
//	for phase := range phases {
//		// every worker computes its part of phase ...
//		if err := b.Wait(); err != nil {
//			return err
//		}
//	}
//
// There is no timeout: a parked goroutine is released only by the arrival that
// completes its cycle or by Close.
package barrier
