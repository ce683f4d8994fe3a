package config

import (
	"os"
	"testing"
)

func TestReadUintDefault(t *testing.T) {
	os.Unsetenv("OVERTHROWER_TEST_VAR")
	got := ReadUint("OVERTHROWER_TEST_VAR", 1, 100, 0, 42)
	if got != 42 {
		t.Fatalf("ReadUint() = %d, want 42", got)
	}
}

func TestReadUintExplicitValue(t *testing.T) {
	t.Setenv("OVERTHROWER_TEST_VAR", "17")
	got := ReadUint("OVERTHROWER_TEST_VAR", 1, 100, 0, noDefault)
	if got != 17 {
		t.Fatalf("ReadUint() = %d, want 17", got)
	}
}

func TestReadUintOutOfRangeFallsBack(t *testing.T) {
	t.Setenv("OVERTHROWER_TEST_VAR", "9999")
	got := ReadUint("OVERTHROWER_TEST_VAR", 1, 100, 0, noDefault)
	if got < 1 || got > 100 {
		t.Fatalf("ReadUint() = %d, want value in [1,100]", got)
	}
}

func TestReadUintUnparseableFallsBack(t *testing.T) {
	t.Setenv("OVERTHROWER_TEST_VAR", "not-a-number")
	got := ReadUint("OVERTHROWER_TEST_VAR", 5, 10, 0, noDefault)
	if got < 5 || got > 10 {
		t.Fatalf("ReadUint() = %d, want value in [5,10]", got)
	}
}

func TestReadUintRandomFallbackRange(t *testing.T) {
	os.Unsetenv("OVERTHROWER_TEST_VAR")
	for i := 0; i < 64; i++ {
		got := ReadUint("OVERTHROWER_TEST_VAR", 10, 20, 0, noDefault)
		if got < 10 || got > 20 {
			t.Fatalf("ReadUint() = %d, want value in [10,20]", got)
		}
	}
}

func TestLoadStrategyNone(t *testing.T) {
	t.Setenv("OVERTHROWER_STRATEGY", "3")
	os.Unsetenv("OVERTHROWER_SELF_OVERTHROW")
	cfg := Load()
	if cfg.Strategy != StrategyNone {
		t.Fatalf("Load().Strategy = %v, want StrategyNone", cfg.Strategy)
	}
	if cfg.SelfOverthrow {
		t.Fatalf("Load().SelfOverthrow = true, want false")
	}
}

func TestLoadStrategyStep(t *testing.T) {
	t.Setenv("OVERTHROWER_STRATEGY", "1")
	t.Setenv("OVERTHROWER_DELAY", "10")
	cfg := Load()
	if cfg.Strategy != StrategyStep {
		t.Fatalf("Load().Strategy = %v, want StrategyStep", cfg.Strategy)
	}
	if cfg.Delay != 10 {
		t.Fatalf("Load().Delay = %d, want 10", cfg.Delay)
	}
}

func TestLoadSelfOverthrowPresence(t *testing.T) {
	t.Setenv("OVERTHROWER_STRATEGY", "3")
	t.Setenv("OVERTHROWER_SELF_OVERTHROW", "")
	cfg := Load()
	if !cfg.SelfOverthrow {
		t.Fatalf("Load().SelfOverthrow = false, want true")
	}
}

func TestStrategyString(t *testing.T) {
	cases := map[Strategy]string{
		StrategyRandom: "random",
		StrategyStep:   "step",
		StrategyPulse:  "pulse",
		StrategyNone:   "none",
	}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Errorf("Strategy(%d).String() = %q, want %q", s, got, want)
		}
	}
}
