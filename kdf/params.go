package kdf

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

const (
	// KeyLen is the size in bytes of every derived wrapping key.
	KeyLen = 32

	// MinSaltLen is the smallest salt Derive accepts.
	MinSaltLen = 16

	// defaultLanes is the Argon2id parallelism used by all presets.
	defaultLanes = 4

	// maxMemoryKiB and maxIterations bound Validate. Anything beyond them
	// is a corrupted or hostile parameter record, not a tuning choice.
	maxMemoryKiB  = 4 * 1024 * 1024
	maxIterations = 512
)

// ErrInvalidParams indicates a parameter set that no derivation may run with.
var ErrInvalidParams = errors.New("kdf: invalid derivation parameters")

// ErrSaltTooShort indicates a salt below the 16-byte minimum.
var ErrSaltTooShort = errors.New("kdf: salt too short")

// Params is one Argon2id cost configuration. It is persisted once per vault
// (JSON field names are part of the stored format) and must be passed back
// unchanged for every derivation against that vault.
type Params struct {
	MemoryKiB  uint32 `json:"memoryCostKiB" yaml:"memoryCostKiB"`
	Iterations uint32 `json:"iterations" yaml:"iterations"`
	Lanes      uint8  `json:"lanes" yaml:"lanes"`
}

// Preset names one of the built-in cost tiers.
type Preset int

const (
	// PresetFast favors unlock latency: 256 MiB, 2 iterations.
	PresetFast Preset = iota
	// PresetBalanced is the default tier: 512 MiB, 3 iterations.
	PresetBalanced
	// PresetMaximum favors brute-force resistance: 512 MiB, 4 iterations.
	PresetMaximum
)

// String returns the preset's name for logging and display.
func (p Preset) String() string {
	switch p {
	case PresetFast:
		return "fast"
	case PresetBalanced:
		return "balanced"
	case PresetMaximum:
		return "maximum"
	default:
		return fmt.Sprintf("preset(%d)", int(p))
	}
}

// Preset defaults. ParamsFor hands them out; calibration caps them to the
// host's winning memory tier.
var (
	fastDefault     = Params{MemoryKiB: 256 * 1024, Iterations: 2, Lanes: defaultLanes}
	balancedDefault = Params{MemoryKiB: 512 * 1024, Iterations: 3, Lanes: defaultLanes}
	maximumDefault  = Params{MemoryKiB: 512 * 1024, Iterations: 4, Lanes: defaultLanes}
)

// ParamsFor returns the uncalibrated default parameters for a preset. Hosts
// that cannot sustain these defaults should use Calibrate instead.
func ParamsFor(p Preset) (Params, error) {
	switch p {
	case PresetFast:
		return fastDefault, nil
	case PresetBalanced:
		return balancedDefault, nil
	case PresetMaximum:
		return maximumDefault, nil
	default:
		return Params{}, fmt.Errorf("%w: unknown preset %d", ErrInvalidParams, int(p))
	}
}

// Validate reports whether p can be handed to the Argon2id implementation.
// Zero members and out-of-range costs are rejected here so that a corrupted
// parameter record surfaces as an error instead of a panic deep in the KDF.
func (p Params) Validate() error {
	if p.Iterations == 0 {
		return fmt.Errorf("%w: iterations must be at least 1", ErrInvalidParams)
	}
	if p.Lanes == 0 {
		return fmt.Errorf("%w: lanes must be at least 1", ErrInvalidParams)
	}
	// Argon2 requires at least 8 KiB per lane.
	if p.MemoryKiB < 8*uint32(p.Lanes) {
		return fmt.Errorf("%w: memory %d KiB below minimum for %d lanes",
			ErrInvalidParams, p.MemoryKiB, p.Lanes)
	}
	if p.MemoryKiB > maxMemoryKiB {
		return fmt.Errorf("%w: memory %d KiB exceeds %d KiB cap",
			ErrInvalidParams, p.MemoryKiB, maxMemoryKiB)
	}
	if p.Iterations > maxIterations {
		return fmt.Errorf("%w: %d iterations exceeds cap of %d",
			ErrInvalidParams, p.Iterations, maxIterations)
	}
	return nil
}

// NewSalt returns a fresh 16-byte random salt for a new vault or slot.
func NewSalt() ([]byte, error) {
	salt := make([]byte, MinSaltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}
