//go:build !linux && !darwin

package overthrower

const platformName = "unsupported"
