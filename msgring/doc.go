// Package msgring implements a FIFO of fixed-size messages laid out in a
// caller supplied byte region.
//
// The region starts with a HeaderSize byte header followed by the message
// slots. All ring state lives in the region itself, so two processes mapping
// the same shared memory (see package shm) can exchange messages through it:
//
//	buf, err := msgring.New(region, 16, 128)
//	ch, err := msgring.NewChannel(buf, lock)
//	err = ch.Put([]byte("hello"))
//	msg, err := ch.Next()
//
// Buffer itself is not safe for concurrent use. Channel serialises access
// with a Locker; MutexLocker covers goroutines of one process and
// shm.FileLock covers separate processes.
package msgring
