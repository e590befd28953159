package securemem

import (
	"sync"

	"github.com/sirupsen/logrus"
)

var coreDumpOnce sync.Once

// DisableCoreDumps sets the process core-dump limit to zero so a crash
// cannot write key material to a core file. The host calls it once at
// startup; repeat calls are no-ops. The setting is best-effort: platforms
// without a core limit log the refusal and continue.
func DisableCoreDumps() {
	coreDumpOnce.Do(func() {
		if err := disableCoreDumps(); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "DisableCoreDumps",
				"error":    err.Error(),
			}).Warn("Could not disable core dumps")
			return
		}
		logrus.WithFields(logrus.Fields{
			"function": "DisableCoreDumps",
		}).Info("Core dumps disabled for this process")
	})
}
