//go:build cgo

package main

/*
#include <errno.h>

static void set_errno_enomem(void) { errno = ENOMEM; }
static int get_errno(void) { return errno; }
static void restore_errno(int saved) { errno = saved; }

extern void overthrowerOnUnload(void);
static void __attribute__((destructor)) overthrower_destructor(void) {
	overthrowerOnUnload();
}
*/
import "C"

import (
	"os"
	"unsafe"

	"github.com/kutelev/overthrower"
	"github.com/kutelev/overthrower/internal/overthrower/diag"
)

// malloc is the interposed allocation entry point. On injected or real OOM
// it returns NULL with errno set to ENOMEM, matching the standard C malloc
// contract.
//
//export malloc
func malloc(size C.size_t) unsafe.Pointer {
	ptr, err := overthrower.Malloc(uintptr(size))
	if err != nil {
		C.set_errno_enomem()
		return nil
	}
	return ptr
}

// realloc is the interposed reallocation entry point.
//
//export realloc
func realloc(ptr unsafe.Pointer, size C.size_t) unsafe.Pointer {
	newPtr, err := overthrower.Realloc(ptr, uintptr(size))
	if err != nil {
		C.set_errno_enomem()
		return nil
	}
	return newPtr
}

// free is the interposed deallocation entry point. A NULL pointer is a
// documented no-op, handled before native_free may even be resolved. errno
// is saved and restored around the call: free(3) must not clobber errno,
// and while the registry erase itself never touches it, the save/restore
// is kept explicit here at the C ABI boundary rather than assumed true of
// whatever runs underneath.
//
//export free
func free(ptr unsafe.Pointer) {
	saved := C.get_errno()
	overthrower.Free(ptr)
	C.restore_errno(saved)
}

// activateOverthrower begins failure injection and allocation tracking,
// reading its configuration from the OVERTHROWER_* environment variables.
//
//export activateOverthrower
func activateOverthrower() {
	overthrower.Activate()
}

// deactivateOverthrower stops failure injection, prints a leak report for
// anything still tracked and returns the leaked-block count.
//
//export deactivateOverthrower
func deactivateOverthrower() C.uint {
	return C.uint(overthrower.Deactivate())
}

// pauseOverthrower suspends failure injection on the calling thread for the
// next duration allocations. duration==0 means indefinitely.
//
//export pauseOverthrower
func pauseOverthrower(duration C.uint) {
	overthrower.Pause(uint32(duration))
}

// resumeOverthrower ends the innermost pause level on the calling thread.
//
//export resumeOverthrower
func resumeOverthrower() {
	overthrower.Resume()
}

// overthrowerOnUnload is the destructor safety net: if the library is
// unloaded while still activated, it warns and performs an implicit
// deactivate rather than leaving the host's leak report unprinted.
//
//export overthrowerOnUnload
func overthrowerOnUnload() {
	if overthrower.IsActivated() {
		diag.ImplicitDeactivateWarning(os.Stderr)
		overthrower.Deactivate()
	}
}
