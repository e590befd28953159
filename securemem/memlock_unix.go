//go:build linux || darwin

package securemem

import "golang.org/x/sys/unix"

// lockMemory pins the pages backing b so the kernel keeps them out of swap.
// Subject to RLIMIT_MEMLOCK; callers treat refusal per the lock policy.
func lockMemory(b []byte) error { return unix.Mlock(b) }

// unlockMemory releases pages previously pinned with lockMemory.
func unlockMemory(b []byte) error { return unix.Munlock(b) }
