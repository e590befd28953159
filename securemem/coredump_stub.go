//go:build !linux && !darwin

package securemem

import "errors"

func disableCoreDumps() error {
	return errors.New("core dump limits not supported on this platform")
}
