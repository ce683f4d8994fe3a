package main

// buildInfo is stamped at build time via -ldflags "-X main.buildInfo=...",
// populated by `overthrower-ctl build` from the target project's go.mod
// (module path and Go version) using golang.org/x/mod/modfile — see
// cmd/overthrower-ctl/build.go. Left empty in an ad hoc `go build` of this
// package.
var buildInfo string
