//go:build darwin

package kdf

import "golang.org/x/sys/unix"

// availableMemoryKiB reports a conservative memory budget in KiB. The kernel
// only exposes total physical memory here, so half of it stands in for what
// a derivation may claim; 0 means the query failed and the trial run alone
// decides.
func availableMemoryKiB() uint64 {
	total, err := unix.SysctlUint64("hw.memsize")
	if err != nil {
		return 0
	}
	return total / 2 / 1024
}
