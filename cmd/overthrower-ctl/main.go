// Command overthrower-ctl builds and runs targets against the overthrower
// shim: `build` compiles cmd/overthrower as a -buildmode=c-shared library
// stamped with the target project's go.mod metadata, and `run` preloads the
// resulting shared object into a target process with the OVERTHROWER_*
// environment variables set.
//
// Usage:
//
//	overthrower-ctl build [-o output.so] [target-dir]
//	overthrower-ctl run [-strategy=1 -delay=10 ...] -- ./target args...
package main

import (
	"fmt"
	"os"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "build":
		if err := buildCommand(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "overthrower-ctl build: %v\n", err)
			os.Exit(1)
		}
	case "run":
		if err := runCommand(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "overthrower-ctl run: %v\n", err)
			os.Exit(1)
		}
	case "version", "--version", "-v":
		fmt.Printf("overthrower-ctl version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`overthrower-ctl - build and run helper for the overthrower allocator shim

USAGE:
	overthrower-ctl build [-o output.so] [target-dir]
	overthrower-ctl run -strategy=1 -delay=10 -- ./target args...
	overthrower-ctl version
	overthrower-ctl help

COMMANDS:
	build    Compile the shim as a -buildmode=c-shared library, stamped
	         with the target project's go.mod metadata when present.
	run      Preload the shim into a target process, translating
	         -strategy/-seed/-duty-cycle/-delay/-duration/-self-overthrow/
	         -verbose flags into OVERTHROWER_* environment variables.
`)
}
