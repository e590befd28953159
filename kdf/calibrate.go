package kdf

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/argon2"

	"github.com/arnaultpascual/Verrou-sub001/securemem"
)

// ErrCalibration indicates that even the minimal 128 MiB tier is infeasible
// on this host. Vault creation must not proceed past it; there is no silent
// fallback to a weaker, uncalibrated preset.
var ErrCalibration = errors.New("kdf: no feasible memory tier on this host")

// probeDeadline bounds the trial derivation at each tier. A host that needs
// longer than this for a single pass will make real unlocks intolerable.
const probeDeadline = 3 * time.Second

// tierProbeOrder lists the candidate memory ceilings, highest first.
var tierProbeOrder = []uint32{512 * 1024, 256 * 1024, 128 * 1024}

// CalibratedPresets carries the three preset tiers after host calibration.
// The caller persists them (JSON or YAML) with the vault they were measured
// for.
type CalibratedPresets struct {
	Fast     Params `json:"fast" yaml:"fast"`
	Balanced Params `json:"balanced" yaml:"balanced"`
	Maximum  Params `json:"maximum" yaml:"maximum"`
}

// tierProbe reports whether a trial derivation at the given memory cost is
// feasible on this host. Injectable so tests can pin tier outcomes without
// allocating gigabytes.
type tierProbe func(memoryKiB uint32) error

// Calibrate probes the host for the highest achievable memory tier and
// returns the preset parameters adjusted to it. Tiers are tried at 512, 256,
// and 128 MiB; the first to pass both the memory-budget check and a timed
// one-pass trial derivation wins. Presets whose default memory exceeds the
// winning tier are capped to it, with iterations scaled up in inverse
// proportion so the total work stays roughly constant.
//
// Calibration can block for several seconds. Callers wanting an overall
// bound should run it under their own timeout.
func Calibrate() (CalibratedPresets, error) {
	return calibrateWith(trialDerivation)
}

func calibrateWith(probe tierProbe) (CalibratedPresets, error) {
	for _, tier := range tierProbeOrder {
		if err := probe(tier); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Calibrate",
				"tier_kib": tier,
				"reason":   err.Error(),
			}).Info("Memory tier infeasible, stepping down")
			continue
		}

		logrus.WithFields(logrus.Fields{
			"function": "Calibrate",
			"tier_kib": tier,
		}).Info("Calibration selected memory tier")
		return presetsForCeiling(tier), nil
	}
	return CalibratedPresets{}, fmt.Errorf("%w: tried down to %d KiB",
		ErrCalibration, tierProbeOrder[len(tierProbeOrder)-1])
}

// trialDerivation is the production probe: a budget check against the host's
// reported memory, then a single-pass Argon2id run that must finish inside
// probeDeadline.
func trialDerivation(memoryKiB uint32) error {
	if avail := availableMemoryKiB(); avail > 0 && uint64(memoryKiB) > avail {
		return fmt.Errorf("tier needs %d KiB, host reports %d KiB available",
			memoryKiB, avail)
	}

	start := time.Now()
	raw := argon2.IDKey(probePassword, probeSalt, 1, memoryKiB, defaultLanes, KeyLen)
	securemem.Wipe(raw)

	if elapsed := time.Since(start); elapsed > probeDeadline {
		return fmt.Errorf("trial pass took %v, deadline is %v", elapsed, probeDeadline)
	}
	return nil
}

// Probe inputs are fixed and public; the trial output is discarded.
var (
	probePassword = []byte("verrou-calibration-probe")
	probeSalt     = []byte("verrou-probe-salt")
)

// presetsForCeiling builds the three presets under a memory ceiling.
func presetsForCeiling(ceilingKiB uint32) CalibratedPresets {
	return CalibratedPresets{
		Fast:     capToCeiling(fastDefault, ceilingKiB),
		Balanced: capToCeiling(balancedDefault, ceilingKiB),
		Maximum:  capToCeiling(maximumDefault, ceilingKiB),
	}
}

// capToCeiling lowers a preset's memory to the ceiling and scales iterations
// inversely: halving the memory doubles the passes.
func capToCeiling(def Params, ceilingKiB uint32) Params {
	if def.MemoryKiB <= ceilingKiB {
		return def
	}
	factor := (uint64(def.MemoryKiB) + uint64(ceilingKiB) - 1) / uint64(ceilingKiB)
	capped := def
	capped.MemoryKiB = ceilingKiB
	capped.Iterations = uint32(uint64(def.Iterations) * factor)
	return capped
}
