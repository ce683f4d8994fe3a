//go:build !((linux || darwin) && cgo)

package native

import (
	"sync"
	"unsafe"
)

// This build path exists so the package (and everything layered on top of
// it) compiles and unit-tests on hosts without cgo enabled, or on platforms
// outside the ELF/Mach-O scope this shim targets. It backs the native
// allocator with ordinary Go-managed memory instead of a real libc; it is
// never linked into an actual -buildmode=c-shared artifact.
var (
	fallbackOnce sync.Once
	blocksMu     sync.Mutex
	blocks       = map[uintptr][]byte{}
)

func resolveOnce() {
	fallbackOnce.Do(func() {
		resolved.Malloc = fallbackMalloc
		resolved.Realloc = fallbackRealloc
		resolved.Free = fallbackFree
	})
}

func fallbackMalloc(size uintptr) unsafe.Pointer {
	if size == 0 {
		return nil
	}
	buf := make([]byte, size)
	ptr := unsafe.Pointer(&buf[0])

	blocksMu.Lock()
	blocks[uintptr(ptr)] = buf
	blocksMu.Unlock()
	return ptr
}

func fallbackRealloc(ptr unsafe.Pointer, size uintptr) unsafe.Pointer {
	if ptr == nil {
		return fallbackMalloc(size)
	}

	blocksMu.Lock()
	old, ok := blocks[uintptr(ptr)]
	blocksMu.Unlock()

	newPtr := fallbackMalloc(size)
	if ok && newPtr != nil {
		n := len(old)
		if int(size) < n {
			n = int(size)
		}
		copy((*[1 << 30]byte)(newPtr)[:n:n], old[:n])
	}

	fallbackFree(ptr)
	return newPtr
}

func fallbackFree(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}
	blocksMu.Lock()
	delete(blocks, uintptr(ptr))
	blocksMu.Unlock()
}

// PrewarmPrintf is a no-op outside the Mach-O build path.
func PrewarmPrintf() {}
