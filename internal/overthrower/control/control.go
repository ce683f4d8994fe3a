// Package control orchestrates the shim's lifecycle and hot-path entry
// points: activate, deactivate, pause, resume, and the malloc/realloc/free
// implementations that tie the configuration, strategy, knowledge base,
// registry, tlocal and native packages together.
//
// The orchestration shape — a fast atomic-bool gate, then per-thread
// context, then delegation to the decision engine — mirrors the
// raceread/racewrite dispatch in the runtime this is adapted from: check the
// cheap global flag first, touch per-thread state only when active, and
// keep every step on the hot path free of unnecessary locking.
package control

import (
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/kutelev/overthrower/internal/overthrower/config"
	"github.com/kutelev/overthrower/internal/overthrower/diag"
	"github.com/kutelev/overthrower/internal/overthrower/knowledgebase"
	"github.com/kutelev/overthrower/internal/overthrower/native"
	"github.com/kutelev/overthrower/internal/overthrower/registry"
	"github.com/kutelev/overthrower/internal/overthrower/strategy"
	"github.com/kutelev/overthrower/internal/overthrower/tlocal"
)

// ErrInjectedOOM is returned when the strategy engine decided to fail an
// allocation. ErrRealOOM is returned when the underlying native allocator
// (or the registry's own backing store) actually ran out of memory. Both
// map to a nil pointer and errno=ENOMEM at the cgo export boundary, but
// callers within this package and its tests distinguish the two.
var (
	ErrInjectedOOM = errors.New("overthrower: injected out-of-memory")
	ErrRealOOM     = errors.New("overthrower: real out-of-memory")
)

// Engine is the process-wide shim state: activation flag, configuration,
// decision engine, and allocation registry. There is exactly one Engine per
// loaded shared library instance.
type Engine struct {
	activated     atomic.Bool
	mallocCounter atomic.Uint32

	mu    sync.Mutex // guards cfg/strat; written by Activate, read by the hot path's accessors
	cfg   config.Config
	strat *strategy.Engine
	reg   *registry.Registry

	selfRandMu sync.Mutex
	selfRand   uint32

	once sync.Once
}

// New returns an unactivated Engine. Interposition is always in effect once
// the shim is loaded; until Activate is called every call simply delegates
// to the native allocator.
func New() *Engine {
	return &Engine{reg: registry.New()}
}

// EnsureInit performs the one-time, process-wide initialization (the
// waiting banner), independent of activation state. Both the cgo
// constructor in cmd/overthrower and the first Malloc call route through
// this, guarded by the same sync.Once, so the banner prints exactly once
// regardless of which fires first.
func (e *Engine) EnsureInit() {
	e.once.Do(func() {
		diag.WaitingBanner(os.Stderr)
	})
}

// Activate reads the environment, seeds the decision engine and resets the
// sequence counter. It may be called while already activated: the existing
// configuration is replaced and the counter resets, but the registry is
// carried through unchanged.
func (e *Engine) Activate() {
	native.PrewarmPrintf()

	e.mu.Lock()
	defer e.mu.Unlock()

	e.mallocCounter.Store(0)

	cfg := config.Load()
	e.cfg = cfg
	e.strat = strategy.New(cfg)

	e.selfRandMu.Lock()
	e.selfRand = cfg.Seed
	e.selfRandMu.Unlock()

	diag.ActivationBanner(os.Stderr, cfg)

	e.activated.Store(true)
}

// Deactivate stops failure injection and tracking, clears per-thread state,
// drains the registry and prints a leak report. It returns the number of
// blocks that were still tracked (leaked). Double-deactivation is a no-op
// that returns 0.
func (e *Engine) Deactivate() uint32 {
	if !e.activated.Swap(false) {
		return 0
	}

	tlocal.Current().Reset()

	diag.DeactivationBanner(os.Stderr)

	entries := e.reg.Drain()
	diag.LeakReport(os.Stderr, entries)

	return uint32(len(entries))
}

// Activated reports whether the engine is currently injecting failures.
func (e *Engine) Activated() bool {
	return e.activated.Load()
}

// Pause pushes a new pause level on the calling thread's stack. duration==0
// means indefinite.
func (e *Engine) Pause(duration uint32) {
	state := tlocal.Current()
	if overflowed := state.Push(duration); overflowed {
		diag.PauseOverflowWarning(os.Stderr)
	}
}

// Resume pops one pause level on the calling thread's stack.
func (e *Engine) Resume() {
	state := tlocal.Current()
	if underflowed := state.Pop(); underflowed {
		diag.PauseUnderflowWarning(os.Stderr)
	}
}

// Malloc implements the interposed malloc entry point in full: pause-check,
// stack classification, strategy decision, registry insertion.
func (e *Engine) Malloc(size uintptr) (unsafe.Pointer, error) {
	e.EnsureInit()

	if !e.activated.Load() {
		return e.nonFailingMalloc(size), nil
	}

	state := tlocal.Current()
	depth := state.Depth()

	whiteList, ignoreList := e.classify(state, depth)

	if paused := state.PausedAt(depth); paused > 0 {
		state.DecrementPausedAt(depth)
		return e.nonFailingMalloc(size), nil
	}

	seqNum := e.mallocCounter.Add(1) - 1

	if whiteList || size == 0 {
		return e.nonFailingMalloc(size), nil
	}

	if e.shouldFail(seqNum) {
		if e.verbose() >= config.VerboseFailed {
			e.traceAllocation(state, depth, false, seqNum)
		}
		return nil, ErrInjectedOOM
	}

	ptr := e.nonFailingMalloc(size)
	if ptr == nil {
		return nil, ErrRealOOM
	}

	if !ignoreList {
		e.reg.Insert(uintptr(ptr), registry.Info{SeqNum: seqNum, Size: size})
	}

	if e.verbose() >= config.VerboseAll {
		e.traceAllocation(state, depth, true, seqNum)
	}

	return ptr, nil
}

// Free implements the interposed free entry point.
func (e *Engine) Free(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}

	if e.activated.Load() {
		e.reg.Erase(uintptr(ptr))
	}

	native.Free(ptr)
}

// Realloc implements the interposed realloc entry point.
func (e *Engine) Realloc(ptr unsafe.Pointer, size uintptr) (unsafe.Pointer, error) {
	if ptr == nil {
		return e.Malloc(size)
	}
	if size == 0 {
		e.Free(ptr)
		return nil, nil
	}

	info, tracked := e.reg.Lookup(uintptr(ptr))
	if !tracked {
		return native.Realloc(ptr, size), nil
	}

	newPtr, err := e.Malloc(size)
	if newPtr == nil {
		return nil, err
	}

	n := info.Size
	if size < n {
		n = size
	}
	copyBytes(newPtr, ptr, n)

	e.Free(ptr)
	return newPtr, nil
}

// classify runs the stack inspector, unless the calling thread is already
// inside it — in which case this allocation is itself a side effect of the
// inspector running (or of verbose printing) and is white-listed outright
// without walking the stack again, matching the reentrancy short-circuit in
// the original classifier. Such reentrant allocations are not added to the
// ignore list, so they are still tracked and still show up in leak reports.
func (e *Engine) classify(state *tlocal.State, depth uint32) (whiteList, ignoreList bool) {
	if state.IsTracing() {
		return true, false
	}

	state.SetTracing(true)
	old := state.PausedAt(depth)
	state.SetPausedAt(depth, tlocal.Indefinite)

	whiteList, ignoreList = knowledgebase.Classify(knowledgebase.Capture())

	state.SetPausedAt(depth, old)
	state.SetTracing(false)
	return whiteList, ignoreList
}

func (e *Engine) shouldFail(seqNum uint32) bool {
	e.mu.Lock()
	strat := e.strat
	e.mu.Unlock()
	if strat == nil {
		return false
	}
	return strat.ShouldFail(seqNum)
}

func (e *Engine) verbose() config.VerboseMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.Verbose
}

func (e *Engine) selfOverthrow() bool {
	e.mu.Lock()
	enabled := e.cfg.SelfOverthrow
	e.mu.Unlock()
	return enabled
}

// nonFailingMalloc is the allocator used for everything that must bypass
// instrumentation: registry storage, white-listed/ignore-listed call sites,
// and the path taken before activation. When self-overthrow is enabled it
// occasionally returns nil itself, simulating a truly exhausted host heap.
func (e *Engine) nonFailingMalloc(size uintptr) unsafe.Pointer {
	if e.selfOverthrow() && e.nextSelfRand()%2 == 0 {
		return nil
	}
	return native.Malloc(size)
}

func (e *Engine) nextSelfRand() uint32 {
	e.selfRandMu.Lock()
	defer e.selfRandMu.Unlock()
	e.selfRand = e.selfRand*1103515245 + 12345
	return e.selfRand
}

func (e *Engine) traceAllocation(state *tlocal.State, depth uint32, succeeded bool, seqNum uint32) {
	state.SetTracing(true)
	old := state.PausedAt(depth)
	state.SetPausedAt(depth, tlocal.Indefinite)

	diag.AllocationTrace(os.Stderr, succeeded, seqNum)
	for _, f := range knowledgebase.Capture() {
		diag.FrameLine(os.Stderr, f.Depth, f.Name)
	}

	state.SetPausedAt(depth, old)
	state.SetTracing(false)
}

// copyBytes mirrors memcpy(new_ptr, pointer, min(old_size, size)).
func copyBytes(dst, src unsafe.Pointer, n uintptr) {
	if n == 0 {
		return
	}
	d := (*[1 << 30]byte)(dst)[:n:n]
	s := (*[1 << 30]byte)(src)[:n:n]
	copy(d, s)
}
