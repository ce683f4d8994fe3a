//go:build cgo && linux

package knowledgebase

/*
#include <execinfo.h>
#include <stdlib.h>
*/
import "C"

import (
	"strings"
	"unsafe"
)

// maxWalkDepth caps the captured window; the knowledge base only ever needs
// depths up to 5, but a little slack keeps depth-shifting helper wrappers
// from silently truncating the window.
const maxWalkDepth = 8

// Capture walks the caller's native call stack using glibc's backtrace()
// and backtrace_symbols(), returning frames indexed from the caller of
// Capture (depth 0). It must not be inlined: the knowledge base's
// correctness depends on deterministic frame depths.
//
//go:noinline
func Capture() []Frame {
	var pcs [maxWalkDepth]unsafe.Pointer
	n := int(C.backtrace((*unsafe.Pointer)(unsafe.Pointer(&pcs[0])), C.int(maxWalkDepth)))
	if n <= 0 {
		return nil
	}

	symbols := C.backtrace_symbols((*unsafe.Pointer)(unsafe.Pointer(&pcs[0])), C.int(n))
	if symbols == nil {
		return nil
	}
	defer C.free(unsafe.Pointer(symbols))

	entries := (*[maxWalkDepth]*C.char)(unsafe.Pointer(symbols))[:n:n]

	frames := make([]Frame, 0, n)
	for i, entry := range entries {
		frames = append(frames, Frame{
			Name:  symbolName(C.GoString(entry)),
			Depth: i,
		})
	}
	return frames
}

// symbolName extracts the mangled function name out of a backtrace_symbols
// line, which on glibc looks like "module(function+0xoffset) [0xaddress]".
func symbolName(line string) string {
	open := strings.IndexByte(line, '(')
	if open < 0 {
		return line
	}
	rest := line[open+1:]
	if plus := strings.IndexByte(rest, '+'); plus >= 0 {
		return rest[:plus]
	}
	if close := strings.IndexByte(rest, ')'); close >= 0 {
		return rest[:close]
	}
	return rest
}
