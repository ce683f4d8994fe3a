// Command overthrower builds as a -buildmode=c-shared library: a fault
// injection allocator shim meant to be preloaded into a host process via
// LD_PRELOAD (ELF), interposing malloc, realloc and free and exposing
// activateOverthrower / deactivateOverthrower / pauseOverthrower /
// resumeOverthrower as its control API. On Mach-O no dyld interposition
// table is emitted, so preloading it with DYLD_INSERT_LIBRARIES does not
// redirect the host's malloc, realloc and free.
//
// This package owns nothing but the C ABI boundary: every decision is made
// by internal/overthrower/control, reached through the root overthrower
// package. See exports.go for the //export surface (including the
// destructor safety net) and buildinfo.go for the go.mod-derived build-info
// line, stamped by `overthrower-ctl build` and printed at load time.
package main

import (
	"fmt"
	"os"

	"github.com/kutelev/overthrower"
)

func init() {
	overthrower.EnsureInitialized()
	if buildInfo != "" {
		fmt.Fprintf(os.Stderr, "overthrower build info: %s\n", buildInfo)
	}
}

func main() {
	// Required by -buildmode=c-shared; never actually runs as the shim is
	// only ever loaded as a shared object, never exec'd directly.
}
