//go:build darwin

package overthrower

const platformName = "macho-interpose"
