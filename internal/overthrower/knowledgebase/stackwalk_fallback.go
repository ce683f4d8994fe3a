//go:build !cgo || !linux

package knowledgebase

import "runtime"

// Capture is the portable fallback used on non-ELF builds and in tests run
// without cgo: it reports the calling goroutine's Go stack rather than a
// native backtrace. It never sees the C++/loader frame names the real
// knowledge base matches against, so Classify reports neither flag for its
// frames (the site is fail-eligible and tracked); the fail-safe default of
// both flags set applies only when no frame at all is captured. This build
// path only exists where the native interposition path itself is unavailable.
//
//go:noinline
func Capture() []Frame {
	var pcs [maxWalkDepth]uintptr
	n := runtime.Callers(2, pcs[:])
	if n == 0 {
		return nil
	}

	frames := make([]Frame, 0, n)
	runtimeFrames := runtime.CallersFrames(pcs[:n])
	depth := 0
	for {
		f, more := runtimeFrames.Next()
		frames = append(frames, Frame{Name: f.Function, Depth: depth})
		depth++
		if !more {
			break
		}
	}
	return frames
}

const maxWalkDepth = 8
