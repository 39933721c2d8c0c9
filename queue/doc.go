// Package queue provides fixed-capacity blocking FIFO queues.
//
// Two interchangeable implementations of BoundedQueue are offered:
//
//   - CondQueue waits on a single condition variable shared by producers
//     and consumers.
//   - SemQueue counts free and filled slots with two semaphores and only
//     takes its mutex to move an item in or out.
//
// Both preserve FIFO order of items. The order in which blocked goroutines
// are woken is unspecified.
//
// Close retires a queue: each element still queued is handed to the
// destructor configured with WithDestructor, and goroutines blocked in
// Insert or Remove return ErrClosed.
//
//	q, err := queue.New[*Job](queue.VariantCond, 64,
//		queue.WithDestructor(func(j *Job) { j.Release() }),
//	)
//	if err != nil {
//		return err
//	}
//	defer q.Close()
package queue
