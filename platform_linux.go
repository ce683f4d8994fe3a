//go:build linux

package overthrower

const platformName = "elf-dlsym"
