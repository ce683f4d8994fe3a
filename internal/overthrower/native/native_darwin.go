//go:build darwin && cgo

package native

/*
#include <stdlib.h>
*/
import "C"

import (
	"sync"
	"unsafe"
)

var resolveOnceGuard sync.Once

// resolveOnce is trivial on Mach-O: interposition rewrites calls to the
// standard malloc/realloc/free symbols to the shim's my_* functions, so
// native_* is simply the standard library allocator, not a looked-up
// "next" symbol the way ELF's dlsym(RTLD_NEXT, ...) requires.
//
// This file only supplies that native_* side. It does not yet emit the
// `__DATA,__interpose` section (an array of (substitute, original) pointer
// pairs with the `__attribute__((used,section("__DATA,__interpose")))`
// placement cgo cannot express directly) that would make dyld actually
// rewrite calls to malloc/realloc/free into this shim's exports on macOS.
// Darwin is therefore not a working interposition target yet; see
// DESIGN.md's "Known limitations" entry.
func resolveOnce() {
	resolveOnceGuard.Do(func() {
		resolved.Malloc = func(size uintptr) unsafe.Pointer {
			return unsafe.Pointer(C.malloc(C.size_t(size)))
		}
		resolved.Realloc = func(ptr unsafe.Pointer, size uintptr) unsafe.Pointer {
			return unsafe.Pointer(C.realloc(ptr, C.size_t(size)))
		}
		resolved.Free = func(ptr unsafe.Pointer) {
			C.free(ptr)
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

// PrewarmPrintf runs before `activated` is set and allocates and frees a
// throwaway C string a thousand times through C.malloc/C.free. It does not
// call printf or any other C formatting routine.
func PrewarmPrintf() {
	for i := 0; i < 1000; i++ {
		s := C.CString("overthrower-prewarm")
		C.free(unsafe.Pointer(s))
	}
}
