package keyslot

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/arnaultpascual/Verrou-sub001/aead"
	"github.com/arnaultpascual/Verrou-sub001/securemem"
)

// SlotType names an unlock method. The string values appear verbatim in
// persisted slot records and in each type's domain tag; they must never
// change.
type SlotType string

const (
	SlotPassword  SlotType = "password"
	SlotBiometric SlotType = "biometric"
	SlotRecovery  SlotType = "recovery"
	SlotHardware  SlotType = "hardware"
)

var (
	// ErrInvalidKeyMaterial is returned when a key argument is not exactly
	// 32 bytes. This is a caller wiring bug, not a wrong credential.
	ErrInvalidKeyMaterial = errors.New("keyslot: key must be exactly 32 bytes")

	// ErrUnknownSlotType is returned for a slot type outside the declared set.
	ErrUnknownSlotType = errors.New("keyslot: unknown slot type")
)

// Valid reports whether t is one of the declared slot types.
func (t SlotType) Valid() bool {
	_, err := domainTag(t)
	return err == nil
}

// domainTag returns the AAD bound into every wrap under this slot type.
// One fixed, distinct tag per type is what keeps unlock methods
// cryptographically apart.
func domainTag(t SlotType) ([]byte, error) {
	switch t {
	case SlotPassword, SlotBiometric, SlotRecovery, SlotHardware:
		return []byte("verrou/slot/" + string(t) + "/v1"), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSlotType, string(t))
	}
}

// KeySlot pairs one unlock method with the master key sealed under that
// method's wrapping key. It is the record the lifecycle manager persists;
// the JSON field names are part of the stored format.
type KeySlot struct {
	Type       SlotType        `json:"slotType"`
	WrappedKey aead.SealedData `json:"wrappedKey"`
}

// CreateSlot seals masterKey under wrappingKey with the slot type's domain
// tag as AAD. Both keys must be exactly 32 bytes. The input Secrets are
// borrowed, not consumed; the caller still owns and destroys them.
func CreateSlot(masterKey, wrappingKey *securemem.Secret, t SlotType) (*KeySlot, error) {
	tag, err := domainTag(t)
	if err != nil {
		return nil, err
	}
	master, err := keyBytes(masterKey, "master key")
	if err != nil {
		return nil, err
	}
	wrapping, err := keyBytes(wrappingKey, "wrapping key")
	if err != nil {
		return nil, err
	}

	sealed, err := aead.Seal(master, wrapping, tag)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap master key: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"function":  "CreateSlot",
		"slot_type": string(t),
	}).Debug("Master key wrapped into slot")

	return &KeySlot{Type: t, WrappedKey: sealed}, nil
}

// UnwrapSlot recovers the master key from slot using wrappingKey. The slot's
// own declared type selects the domain tag, so a record relabeled to a
// different type fails authentication. An authentication failure is returned
// as aead.ErrAuthentication with no further detail; it is the expected
// outcome of a wrong credential. The caller owns the returned Secret.
func UnwrapSlot(slot *KeySlot, wrappingKey *securemem.Secret) (*securemem.Secret, error) {
	if slot == nil {
		return nil, fmt.Errorf("%w: nil slot", ErrInvalidKeyMaterial)
	}
	tag, err := domainTag(slot.Type)
	if err != nil {
		return nil, err
	}
	wrapping, err := keyBytes(wrappingKey, "wrapping key")
	if err != nil {
		return nil, err
	}

	raw, err := aead.Open(slot.WrappedKey, wrapping, tag)
	if err != nil {
		// The single authentication outcome passes through untouched.
		return nil, err
	}

	master, err := securemem.NewSecret(raw)
	securemem.Wipe(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to store master key: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"function":  "UnwrapSlot",
		"slot_type": string(slot.Type),
	}).Debug("Slot unwrapped")

	return master, nil
}

// keyBytes validates that s holds exactly one AEAD key worth of bytes and
// returns the borrowed view. Nil and destroyed Secrets fail the length check.
func keyBytes(s *securemem.Secret, role string) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil %s", ErrInvalidKeyMaterial, role)
	}
	if s.Len() != aead.KeySize {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrInvalidKeyMaterial, role, s.Len())
	}
	return s.Bytes(), nil
}
