// Package diag formats the human-readable diagnostics the shim writes to
// stderr: the activation banner, per-allocation verbose traces, leak
// reports and pause-stack warnings. Every function here writes straight to
// an io.Writer (os.Stderr in production, a bytes.Buffer in tests) rather
// than going through a logging library, matching the bare
// fmt.Fprintf(os.Stderr, ...) idiom used throughout the codebase this is
// adapted from.
package diag

import (
	"fmt"
	"io"

	"github.com/kutelev/overthrower/internal/overthrower/config"
	"github.com/kutelev/overthrower/internal/overthrower/registry"
)

// WaitingBanner is printed once at library-load time, before any
// activation signal has been received.
func WaitingBanner(w io.Writer) {
	fmt.Fprintf(w, "overthrower is waiting for the activation signal ...\n")
	fmt.Fprintf(w, "Invoke activateOverthrower and overthrower will start his job.\n")
}

// ActivationBanner prints the chosen configuration, in the same order the
// original activator reads it.
func ActivationBanner(w io.Writer, cfg config.Config) {
	fmt.Fprintf(w, "overthrower got activation signal.\n")
	fmt.Fprintf(w, "overthrower will use following parameters for failing allocations:\n")
	fmt.Fprintf(w, "Strategy = %s\n", cfg.Strategy)

	switch cfg.Strategy {
	case config.StrategyRandom:
		fmt.Fprintf(w, "Duty cycle = %d\n", cfg.DutyCycle)
		fmt.Fprintf(w, "Seed = %d\n", cfg.Seed)
	case config.StrategyStep:
		fmt.Fprintf(w, "Delay = %d\n", cfg.Delay)
	case config.StrategyPulse:
		fmt.Fprintf(w, "Delay = %d\n", cfg.Delay)
		fmt.Fprintf(w, "Duration = %d\n", cfg.Duration)
	}

	overthrowState := "disabled"
	if cfg.SelfOverthrow {
		overthrowState = "enabled"
	}
	fmt.Fprintf(w, "Self overthrow mode = %s\n", overthrowState)
	fmt.Fprintf(w, "Verbose mode = %d\n", cfg.Verbose)
}

// DeactivationBanner is printed at the start of deactivate, before the leak
// report.
func DeactivationBanner(w io.Writer) {
	fmt.Fprintf(w, "overthrower got deactivation signal.\n")
	fmt.Fprintf(w, "overthrower will not fail allocations anymore.\n")
}

// LeakReport prints one line per leaked block, pointer/sequence-number/size
// columns, followed by the header the original prints below the table
// (stderr output is append-only, so the header reads as a footer here too).
func LeakReport(w io.Writer, entries []registry.Entry) {
	if len(entries) == 0 {
		return
	}

	fmt.Fprintf(w, "overthrower has detected not freed memory blocks with following addresses:\n")
	for _, e := range entries {
		fmt.Fprintf(w, "0x%016x  -  %6d  -  %10d\n", e.Ptr, e.Info.SeqNum, e.Info.Size)
	}
	fmt.Fprintf(w, "^^^^^^^^^^^^^^^^^^  |  ^^^^^^  |  ^^^^^^^^^^\n")
	fmt.Fprintf(w, "      pointer       |  malloc  |  block size\n")
	fmt.Fprintf(w, "                    |invocation|\n")
	fmt.Fprintf(w, "                    |  number  |\n")
}

// ImplicitDeactivateWarning is printed by the destructor safety net when
// the library is unloaded while still activated.
func ImplicitDeactivateWarning(w io.Writer) {
	fmt.Fprintf(w, "overthrower has not been deactivated explicitly, doing it anyway.\n")
}

// PauseOverflowWarning is printed when Push exceeds MaxPauseDepth.
func PauseOverflowWarning(w io.Writer) {
	fmt.Fprintf(w, "pause stack overflow detected.\n")
}

// PauseUnderflowWarning is printed when Pop is called on an empty stack.
func PauseUnderflowWarning(w io.Writer) {
	fmt.Fprintf(w, "pause stack underflow detected.\n")
}

// AllocationTrace prints the "### Failed/Successful allocation ###" banner
// that brackets a verbose-mode stack dump.
func AllocationTrace(w io.Writer, succeeded bool, seqNum uint32) {
	label := "Failed"
	if succeeded {
		label = "Successful"
	}
	fmt.Fprintf(w, "\n### %s allocation, sequential number: %d ###\n", label, seqNum)
}

// FrameLine prints one stack frame during a verbose trace, depth-indexed
// the way the original traverseStack/printFrameInfo pair does.
func FrameLine(w io.Writer, depth int, name string) {
	fmt.Fprintf(w, "#%-2d %s\n", depth, name)
}
