//go:build !linux && !darwin

package securemem

import "errors"

var errLockUnsupported = errors.New("page locking not supported on this platform")

func lockMemory(b []byte) error { return errLockUnsupported }

func unlockMemory(b []byte) error { return nil }
