//go:build linux || darwin

package securemem

import "golang.org/x/sys/unix"

func disableCoreDumps() error {
	rlim := unix.Rlimit{Cur: 0, Max: 0}
	return unix.Setrlimit(unix.RLIMIT_CORE, &rlim)
}
