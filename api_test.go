package overthrower

import "testing"

func TestGetInfoReflectsActivation(t *testing.T) {
	if IsActivated() {
		t.Fatalf("IsActivated() = true before any Activate() call")
	}

	info := GetInfo()
	if info.Version != Version {
		t.Fatalf("GetInfo().Version = %q, want %q", info.Version, Version)
	}
	if info.Activated {
		t.Fatalf("GetInfo().Activated = true before any Activate() call")
	}
}

func TestMallocFreeRoundTripWithoutActivation(t *testing.T) {
	ptr, err := Malloc(64)
	if err != nil || ptr == nil {
		t.Fatalf("Malloc() = (%v, %v), want a live pointer", ptr, err)
	}
	Free(ptr)
}

func TestPauseResumeDoNotPanicBeforeActivation(t *testing.T) {
	Pause(1)
	Resume()
}

func TestEnsureInitializedIsIdempotent(t *testing.T) {
	EnsureInitialized()
	EnsureInitialized() // must not panic or print the banner twice
}
