//go:build linux && cgo

package native

/*
#define _GNU_SOURCE
#include <dlfcn.h>
#include <stdlib.h>

static void *next_malloc(void)  { return dlsym(RTLD_NEXT, "malloc"); }
static void *next_realloc(void) { return dlsym(RTLD_NEXT, "realloc"); }
static void *next_free(void)    { return dlsym(RTLD_NEXT, "free"); }

static void *call_malloc(void *fn, size_t size)       { return ((void *(*)(size_t))fn)(size); }
static void *call_realloc(void *fn, void *ptr, size_t size) { return ((void *(*)(void *, size_t))fn)(ptr, size); }
static void call_free(void *fn, void *ptr)             { ((void (*)(void *))fn)(ptr); }
*/
import "C"

import (
	"sync"
	"unsafe"
)

var resolveOnceGuard sync.Once

// resolveOnce performs the ELF "next symbol" lookup exactly once: a
// dlsym(RTLD_NEXT, ...) call for each of malloc/realloc/free, storing the
// resulting function pointers. Before this completes, every Funcs field is
// nil and callers fall back to the built-in allocator.
func resolveOnce() {
	resolveOnceGuard.Do(func() {
		mallocFn := C.next_malloc()
		reallocFn := C.next_realloc()
		freeFn := C.next_free()

		if mallocFn != nil {
			resolved.Malloc = func(size uintptr) unsafe.Pointer {
				return unsafe.Pointer(C.call_malloc(mallocFn, C.size_t(size)))
			}
		}
		if reallocFn != nil {
			resolved.Realloc = func(ptr unsafe.Pointer, size uintptr) unsafe.Pointer {
				return unsafe.Pointer(C.call_realloc(reallocFn, ptr, C.size_t(size)))
			}
		}
		if freeFn != nil {
			resolved.Free = func(ptr unsafe.Pointer) {
				C.call_free(freeFn, ptr)
			}
		}
	})
}

func fallbackMalloc(size uintptr) unsafe.Pointer {
	return unsafe.Pointer(C.malloc(C.size_t(size)))
}

func fallbackRealloc(ptr unsafe.Pointer, size uintptr) unsafe.Pointer {
	return unsafe.Pointer(C.realloc(ptr, C.size_t(size)))
}

func fallbackFree(ptr unsafe.Pointer) {
	C.free(ptr)
}

// PrewarmPrintf is a no-op on ELF: the printf pre-warming trick is only
// needed on Mach-O, where printf's own allocation could otherwise recurse
// into the shim during activation.
func PrewarmPrintf() {}
