// Package registry implements the process-wide live-allocation map: every
// successfully tracked malloc inserts an entry, every matching free or
// realloc removes it, and whatever remains at deactivate is the leak
// report.
//
// The map itself must never allocate through the interposed path — doing so
// would recurse into the shim under the registry's own lock — so every
// entry insertion is driven by plain Go maps backed by the Go runtime's
// allocator rather than the instrumented one. This is upheld by
// construction: nothing in this package ever calls through
// internal/overthrower/native.
package registry

import (
	"sync"

	"golang.org/x/sys/unix"
)

// Info is the value half of a registry entry: the allocation's sequence
// number and requested size.
type Info struct {
	SeqNum uint32
	Size   uintptr
}

// Registry is a pointer-keyed live-allocation map guarded by a recursive
// mutex. Each method holds the lock only for its own map operation; Drain
// copies the entries out, so the leak report is printed from that copy after
// the lock has been released.
type Registry struct {
	mu      recursiveMutex
	entries map[uintptr]Info
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{entries: make(map[uintptr]Info)}
}

// Insert records a newly tracked, live allocation.
func (r *Registry) Insert(ptr uintptr, info Info) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[ptr] = info
}

// Erase removes a pointer from the registry. Missing keys are silent: the
// block may have been allocated before activation, or ignore-listed.
func (r *Registry) Erase(ptr uintptr) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, ptr)
}

// Lookup returns the Info for a tracked pointer, used by realloc to find
// the old size before copying.
func (r *Registry) Lookup(ptr uintptr) (Info, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	info, ok := r.entries[ptr]
	return info, ok
}

// Drain removes and returns every remaining entry. Called by deactivate;
// len(result) is the leak count.
func (r *Registry) Drain() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, 0, len(r.entries))
	for ptr, info := range r.entries {
		out = append(out, Entry{Ptr: ptr, Info: info})
	}
	r.entries = make(map[uintptr]Info)
	return out
}

// Len reports the number of currently tracked allocations.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Entry pairs a live pointer with its tracked Info, as returned by Drain.
type Entry struct {
	Ptr  uintptr
	Info Info
}

// recursiveMutex is a reentrant lock keyed by OS thread id: the same
// calling thread may Lock it more than once without deadlocking, matching
// the registry's recursive-mutex requirement. Threads are pinned for the duration of a cgo
// callback, so unix.Gettid() is a stable owner key the same way it keys
// per-thread pause state in tlocal.
type recursiveMutex struct {
	mu    sync.Mutex
	owner int
	depth int
}

func (m *recursiveMutex) Lock() {
	id := unix.Gettid()
	if m.depth > 0 && m.owner == id {
		m.depth++
		return
	}
	m.mu.Lock()
	m.owner = id
	m.depth = 1
}

func (m *recursiveMutex) Unlock() {
	m.depth--
	if m.depth == 0 {
		m.owner = 0
		m.mu.Unlock()
	}
}
