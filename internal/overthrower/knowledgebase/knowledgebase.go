// Package knowledgebase implements the stack inspector: on every incoming
// allocation it walks the caller's native stack and classifies the call
// site against a small built-in table of frame-name patterns, producing two
// independent flags, whiteList (never fail this allocation) and ignoreList
// (never track it).
//
// The table below is carried forward from the loader-internals and C++
// runtime entries the original shim special-cases: the C++ exception-object
// allocator, the atexit registrar, and a handful of dynamic-loader symbols
// that either cannot tolerate injected failure or legitimately leak by
// design. Matching is done by frame name at a small window of depths (2..5)
// rather than a single fixed depth, because wrapping the classifier in
// additional helper functions shifts every frame down by one — the window
// absorbs that brittleness the way the original's comment about depth
// brittleness warns against.
package knowledgebase

import "strings"

// Frame is one entry of a captured call stack, as produced by Capture.
type Frame struct {
	Name  string
	Depth int
}

// rule is one knowledge-base entry: a function-name substring, the depth
// window it's expected to appear in, and which of the two flags it sets.
type rule struct {
	nameContains string
	minDepth     int
	maxDepth     int
	whiteList    bool
	ignoreList   bool
}

// table mirrors the checker() knowledge base: the C++ exception allocator is
// white-listed so throw/catch survives fault injection, the atexit
// registrar is both white-listed and ignored because it legitimately leaks,
// and a handful of ELF dynamic-loader internals are ignored and/or
// white-listed because they either leak by design or cannot tolerate a
// simulated OOM during symbol resolution.
var table = []rule{
	{nameContains: "__cxa_allocate_exception", minDepth: 2, maxDepth: 3, whiteList: true},
	{nameContains: "__cxa_atexit", minDepth: 2, maxDepth: 3, whiteList: true, ignoreList: true},
	{nameContains: "_dl_map_object", minDepth: 2, maxDepth: 4, ignoreList: true},
	{nameContains: "_dl_map_object_deps", minDepth: 2, maxDepth: 4, ignoreList: true},
	{nameContains: "_dl_catch_exception", minDepth: 5, maxDepth: 5, ignoreList: true},
	{nameContains: "_dl_signal_error", minDepth: 2, maxDepth: 2, whiteList: true, ignoreList: true},
	{nameContains: "_dl_exception_create", minDepth: 2, maxDepth: 2, whiteList: true, ignoreList: true},
	{nameContains: "dlerror", minDepth: 4, maxDepth: 5, ignoreList: true},
	{nameContains: "__libpthread_freeres", minDepth: 2, maxDepth: 5, ignoreList: true},
}

// Classify applies the knowledge-base table to a captured stack and returns
// the whiteList/ignoreList verdict. An empty frames slice (the backtrace
// primitive failed to produce symbols) defaults both flags to true: treat
// the site as both white-listed and ignored, the documented fail-safe.
func Classify(frames []Frame) (whiteList, ignoreList bool) {
	if len(frames) == 0 {
		return true, true
	}

	for _, f := range frames {
		for _, r := range table {
			if f.Depth < r.minDepth || f.Depth > r.maxDepth {
				continue
			}
			if !strings.Contains(f.Name, r.nameContains) {
				continue
			}
			if r.whiteList {
				whiteList = true
			}
			if r.ignoreList {
				ignoreList = true
			}
		}
	}

	return whiteList, ignoreList
}
