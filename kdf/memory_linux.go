//go:build linux

package kdf

import "golang.org/x/sys/unix"

// availableMemoryKiB reports how much memory the host can plausibly hand to
// a derivation, in KiB. Free pages plus buffers approximates that; 0 means
// the kernel could not be queried and the trial run alone decides.
func availableMemoryKiB() uint64 {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0
	}
	unit := uint64(info.Unit)
	if unit == 0 {
		unit = 1
	}
	return (uint64(info.Freeram) + uint64(info.Bufferram)) * unit / 1024
}
