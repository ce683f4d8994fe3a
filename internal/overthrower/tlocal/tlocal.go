// Package tlocal holds per-OS-thread state: the reentrancy guard, the
// pause-depth stack and the current depth counter described by the
// specification's thread-local state component.
//
// Allocation requests arrive through cgo callbacks from arbitrary native
// threads rather than goroutines scheduled by the Go runtime, so state
// cannot be kept in a goroutine-local the way a pure-Go hot path would. A
// cgo callback runs pinned to the calling OS thread for its duration, so
// the numeric OS thread id observed at entry (golang.org/x/sys/unix.Gettid)
// is a stable per-thread key for that call, the same way a goroutine id
// keys per-goroutine context elsewhere.
package tlocal

import (
	"sync"

	"golang.org/x/sys/unix"
)

// MaxPauseDepth bounds the pause stack; overflow beyond this depth reuses
// the top slot rather than growing unboundedly.
const MaxPauseDepth = 16

// Indefinite marks a pause slot as paused forever, until an explicit resume.
const Indefinite = ^uint32(0)

// State is the per-thread record: reentrancy flag, pause counter stack and
// current depth.
type State struct {
	mu        sync.Mutex
	isTracing bool
	paused    [MaxPauseDepth + 1]uint32
	depth     uint32
}

var (
	states   sync.Map // tid(int) -> *State
	statesMu sync.Mutex
)

// Current returns (creating if necessary) the State for the calling OS
// thread.
func Current() *State {
	tid := unix.Gettid()

	if s, ok := states.Load(tid); ok {
		return s.(*State)
	}

	statesMu.Lock()
	defer statesMu.Unlock()

	if s, ok := states.Load(tid); ok {
		return s.(*State)
	}

	s := &State{}
	states.Store(tid, s)
	return s
}

// IsTracing reports whether the current thread is already inside the stack
// inspector or a diagnostic printer (reentrancy guard read).
func (s *State) IsTracing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isTracing
}

// SetTracing sets the reentrancy guard.
func (s *State) SetTracing(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isTracing = v
}

// Depth returns the current pause-stack depth, clamped to MaxPauseDepth.
func (s *State) Depth() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.depth > MaxPauseDepth {
		return MaxPauseDepth
	}
	return s.depth
}

// PausedAt returns the pause counter at the given depth.
func (s *State) PausedAt(depth uint32) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused[depth]
}

// SetPausedAt overwrites the pause counter at the given depth (used to force
// UINT_MAX while the stack inspector runs, and to restore it afterward).
func (s *State) SetPausedAt(depth, value uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused[depth] = value
}

// DecrementPausedAt decrements a nonzero pause counter by one, as each
// allocation that observes it does to let finite pauses expire.
func (s *State) DecrementPausedAt(depth uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paused[depth] != 0 && s.paused[depth] != Indefinite {
		s.paused[depth]--
	}
}

// Push starts a new pause level. duration==0 means indefinite. Overflow
// beyond MaxPauseDepth reuses the top slot and reports true so the caller
// can warn.
func (s *State) Push(duration uint32) (overflowed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value := duration
	if value == 0 {
		value = Indefinite
	}

	if s.depth >= MaxPauseDepth {
		s.paused[MaxPauseDepth] = value
		return true
	}

	s.depth++
	s.paused[s.depth] = value
	return false
}

// Pop ends the innermost pause level. Underflow reports true so the caller
// can warn; it is otherwise a no-op.
func (s *State) Pop() (underflowed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.depth == 0 {
		return true
	}

	s.paused[s.depth] = 0
	s.depth--
	return false
}

// Reset clears all per-thread pause state, used by deactivate.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.depth = 0
	for i := range s.paused {
		s.paused[i] = 0
	}
	s.isTracing = false
}
