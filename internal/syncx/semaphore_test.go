package syncx

import (
	"sync"
	"testing"
	"time"
)

func TestSemaphore_InitialPermits(t *testing.T) {
	s, err := NewSemaphore(4, 1)
	if err != nil {
		t.Fatalf("Failed to create semaphore: %v", err)
	}

	if s.Available() != 1 {
		t.Errorf("Expected 1 available permit, got %d", s.Available())
	}
	if s.Max() != 4 {
		t.Errorf("Expected max 4, got %d", s.Max())
	}

	if !s.TryAcquire() {
		t.Error("Expected TryAcquire to succeed")
	}
	if s.TryAcquire() {
		t.Error("Expected TryAcquire to fail with no permits")
	}
}

func TestSemaphore_InvalidPermits(t *testing.T) {
	cases := [][2]int{{0, 0}, {-1, 0}, {2, 3}, {2, -1}}
	for _, c := range cases {
		if _, err := NewSemaphore(c[0], c[1]); err != ErrInvalidPermits {
			t.Errorf("NewSemaphore(%d, %d): expected ErrInvalidPermits, got %v", c[0], c[1], err)
		}
	}
}

func TestSemaphore_ReleaseOverflow(t *testing.T) {
	s, _ := NewSemaphore(1, 1)

	if err := s.Release(); err != ErrSemaphoreOverflow {
		t.Errorf("Expected ErrSemaphoreOverflow, got %v", err)
	}
}

func TestSemaphore_AcquireBlocksUntilRelease(t *testing.T) {
	s, _ := NewSemaphore(1, 0)
	done := make(chan struct{})

	acquired := make(chan error, 1)
	go func() {
		acquired <- s.Acquire(done)
	}()

	select {
	case <-acquired:
		t.Fatal("Acquire returned before a permit was released")
	case <-time.After(20 * time.Millisecond):
	}

	if err := s.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	select {
	case err := <-acquired:
		if err != nil {
			t.Errorf("Expected nil error, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Acquire did not return after Release")
	}
}

func TestSemaphore_AcquireReleasedByDone(t *testing.T) {
	s, _ := NewSemaphore(2, 0)
	done := make(chan struct{})

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.Acquire(done)
		}()
	}

	close(done)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != ErrSemaphoreClosed {
			t.Errorf("Expected ErrSemaphoreClosed, got %v", err)
		}
	}
}

func TestSemaphore_DoneWinsOverPermit(t *testing.T) {
	s, _ := NewSemaphore(1, 1)
	done := make(chan struct{})
	close(done)

	if err := s.Acquire(done); err != ErrSemaphoreClosed {
		t.Errorf("Expected ErrSemaphoreClosed, got %v", err)
	}
	if s.Available() != 1 {
		t.Errorf("Permit should not be consumed, available = %d", s.Available())
	}
}

func TestIsNil(t *testing.T) {
	var p *int
	var m map[string]int
	var f func()
	var e error
	x := 3

	tests := []struct {
		name string
		v    any
		want bool
	}{
		{"untyped nil", nil, true},
		{"nil pointer", p, true},
		{"nil map", m, true},
		{"nil func", f, true},
		{"nil interface", e, true},
		{"pointer", &x, false},
		{"int zero", 0, false},
		{"empty string", "", false},
		{"struct", struct{}{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNil(tt.v); got != tt.want {
				t.Errorf("IsNil(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}
