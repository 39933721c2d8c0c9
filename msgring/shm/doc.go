// Package shm maps files into memory so that a msgring.Buffer can be shared
// between processes, and provides a file lock to guard it.
//
//	region, err := shm.Create(shm.Path("jobs"), size)
//	buf, err := msgring.New(region.Bytes(), 16, 128)
//	lock, err := region.Lock()
//	ch, err := msgring.NewChannel(buf, lock)
//
// A second process calls shm.Open and msgring.Attach on the same path.
// Only unix platforms are supported.
package shm
