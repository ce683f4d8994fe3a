package overthrower

import (
	"unsafe"

	internal "github.com/kutelev/overthrower/internal/overthrower/control"
)

var engine = internal.New()

// EnsureInitialized performs the one-time, process-wide initialization
// (the waiting banner) described by the lifecycle's "library load"
// constructor step. It is safe to call more than once — only the first
// call has any effect — and is the single source of that banner: both
// the cmd/overthrower cgo constructor and the first Malloc call route
// through it, so the host sees it exactly once regardless of entry point.
func EnsureInitialized() {
	engine.EnsureInit()
}

// Activate reads the OVERTHROWER_* environment variables and begins
// failure injection and allocation tracking. Safe to call while already
// activated: the configuration is replaced and the sequence counter
// resets, but the registry is carried through.
//
//nolint:revive // Activate is the Go-callable mirror of activateOverthrower
func Activate() {
	engine.Activate()
}

// Deactivate stops failure injection and tracking, prints a leak report
// for anything still tracked, and returns the leaked-block count.
// Double-deactivation returns 0.
//
//nolint:revive // Deactivate is the Go-callable mirror of deactivateOverthrower
func Deactivate() uint32 {
	return engine.Deactivate()
}

// Pause suspends failure injection on the calling thread for the next
// duration allocations. duration==0 means indefinitely, until a matching
// Resume.
//
//nolint:revive // Pause is the Go-callable mirror of pauseOverthrower
func Pause(duration uint32) {
	engine.Pause(duration)
}

// Resume ends the innermost pause level started by Pause on the calling
// thread.
//
//nolint:revive // Resume is the Go-callable mirror of resumeOverthrower
func Resume() {
	engine.Resume()
}

// IsActivated reports whether the shim is currently injecting failures.
func IsActivated() bool {
	return engine.Activated()
}

// Malloc is the Go-callable equivalent of the interposed malloc entry
// point, exposed for hosts embedding the engine directly (without going
// through the cgo/-buildmode=c-shared surface) and for this package's own
// tests.
func Malloc(size uintptr) (unsafe.Pointer, error) {
	return engine.Malloc(size)
}

// Realloc is the Go-callable equivalent of the interposed realloc entry
// point.
func Realloc(ptr unsafe.Pointer, size uintptr) (unsafe.Pointer, error) {
	return engine.Realloc(ptr, size)
}

// Free is the Go-callable equivalent of the interposed free entry point.
func Free(ptr unsafe.Pointer) {
	engine.Free(ptr)
}
