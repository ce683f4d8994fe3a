// Package overthrower provides the public API for the fault-injection
// allocator shim.
//
// overthrower is an LD_PRELOAD / DYLD_INSERT_LIBRARIES shared library that
// replaces a host process's malloc, realloc and free with instrumented
// versions able to deliberately fail allocations according to a configured
// pattern, while tracking every live allocation to detect leaks. Its
// consumers are test harnesses exercising out-of-memory code paths in
// libraries and applications without touching their source.
//
// # Quick start
//
// From a host's test setup, preload the built shared object and drive it
// through its four control entry points:
//
//	LD_PRELOAD=./overthrower.so OVERTHROWER_STRATEGY=1 OVERTHROWER_DELAY=10 ./target_under_test
//
// and from inside the target process (declared as weak/optional symbols so
// the host links whether or not the shim is preloaded):
//
//	activateOverthrower();
//	... exercise code that allocates ...
//	unsigned int leaked = deactivateOverthrower();
//
// # API overview
//
// This package is a thin wrapper around internal/overthrower/control, which
// owns the actual engine: activation state, the strategy decision, the
// allocation registry and the per-thread pause stack. Activate, Deactivate,
// Pause and Resume here are the Go-callable equivalents of the four
// C-exported control symbols cmd/overthrower re-exports across the cgo
// boundary for -buildmode=c-shared builds.
//
// # How it works
//
// Every malloc reaching the interposed entry point is checked against the
// current pause state, classified by a stack inspector that recognizes a
// small set of call sites that must never fail or never be tracked (the
// C++ exception allocator, the atexit registrar, dynamic-loader internals),
// and then handed to one of four strategies (RANDOM, STEP, PULSE, NONE) to
// decide whether this allocation should be failed. See
// internal/overthrower/control for the full orchestration.
//
// # Compatibility
//
// ELF (Linux, via dlsym(RTLD_NEXT, ...)) user-space targets with a POSIX
// threading API. Mach-O (macOS) builds resolve the native allocator but emit
// no dyld interposition table, so there malloc, realloc and free are not
// redirected to the shim.
package overthrower
