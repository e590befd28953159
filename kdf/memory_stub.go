//go:build !linux && !darwin

package kdf

// availableMemoryKiB has no host query on this platform. Returning 0 leaves
// tier feasibility entirely to the timed trial derivation.
func availableMemoryKiB() uint64 { return 0 }
