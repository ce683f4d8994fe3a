package native

import "testing"

func TestMallocReallocFreeRoundTrip(t *testing.T) {
	ptr := Malloc(64)
	if ptr == nil {
		t.Fatalf("Malloc(64) = nil")
	}

	ptr = Realloc(ptr, 128)
	if ptr == nil {
		t.Fatalf("Realloc(ptr, 128) = nil")
	}

	Free(ptr) // must not panic
}

func TestFreeNilIsNoOp(t *testing.T) {
	Free(nil) // must not panic or dereference an unresolved native_free
}

func TestReallocNilBehavesLikeMalloc(t *testing.T) {
	ptr := Realloc(nil, 32)
	if ptr == nil {
		t.Fatalf("Realloc(nil, 32) = nil")
	}
	Free(ptr)
}

func TestMallocZeroSizeDoesNotPanic(t *testing.T) {
	Free(Malloc(0)) // must not panic, regardless of what it returns
}
