package tlocal

import (
	"runtime"
	"sync"
	"testing"
)

func TestCurrentReturnsSameStatePerThread(t *testing.T) {
	a := Current()
	b := Current()
	if a != b {
		t.Fatalf("Current() returned different states on the same goroutine/thread")
	}
}

func TestPushResumeBalances(t *testing.T) {
	s := &State{}

	if overflow := s.Push(3); overflow {
		t.Fatalf("Push(3) overflowed unexpectedly")
	}
	if got := s.Depth(); got != 1 {
		t.Fatalf("Depth() = %d, want 1", got)
	}
	if got := s.PausedAt(1); got != 3 {
		t.Fatalf("PausedAt(1) = %d, want 3", got)
	}

	if underflow := s.Pop(); underflow {
		t.Fatalf("Pop() underflowed unexpectedly")
	}
	if got := s.Depth(); got != 0 {
		t.Fatalf("Depth() = %d, want 0", got)
	}
}

func TestPushZeroMeansIndefinite(t *testing.T) {
	s := &State{}
	s.Push(0)
	if got := s.PausedAt(1); got != Indefinite {
		t.Fatalf("PausedAt(1) = %d, want Indefinite", got)
	}
}

func TestPushOverflowReusesTopSlot(t *testing.T) {
	s := &State{}
	for i := 0; i < MaxPauseDepth; i++ {
		s.Push(1)
	}
	if overflow := s.Push(5); !overflow {
		t.Fatalf("Push() at max depth did not report overflow")
	}
	if got := s.Depth(); got != MaxPauseDepth {
		t.Fatalf("Depth() = %d, want %d after overflow", got, MaxPauseDepth)
	}
}

func TestPopUnderflow(t *testing.T) {
	s := &State{}
	if underflow := s.Pop(); !underflow {
		t.Fatalf("Pop() on empty stack did not report underflow")
	}
}

func TestDecrementPausedAtExpiresFinitePause(t *testing.T) {
	s := &State{}
	s.Push(2)
	s.DecrementPausedAt(1)
	if got := s.PausedAt(1); got != 1 {
		t.Fatalf("PausedAt(1) = %d, want 1", got)
	}
	s.DecrementPausedAt(1)
	if got := s.PausedAt(1); got != 0 {
		t.Fatalf("PausedAt(1) = %d, want 0", got)
	}
}

func TestDecrementPausedAtIndefiniteNeverExpires(t *testing.T) {
	s := &State{}
	s.Push(0)
	for i := 0; i < 10; i++ {
		s.DecrementPausedAt(1)
	}
	if got := s.PausedAt(1); got != Indefinite {
		t.Fatalf("PausedAt(1) = %d, want Indefinite to persist", got)
	}
}

func TestConcurrentThreadsDoNotShareState(t *testing.T) {
	var wg sync.WaitGroup
	results := make(chan uint32, 32)

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(depth uint32) {
			defer wg.Done()
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()
			s := Current()
			s.Reset()
			s.Push(depth)
			results <- s.PausedAt(1)
		}(uint32(i + 1))
	}

	wg.Wait()
	close(results)
	for v := range results {
		if v == 0 {
			t.Fatalf("got unexpected zero pause value")
		}
	}
}
