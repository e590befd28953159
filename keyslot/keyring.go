package keyslot

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/arnaultpascual/Verrou-sub001/securemem"
)

var (
	// ErrSlotNotFound is returned when no enrollment carries the given ID.
	ErrSlotNotFound = errors.New("keyslot: no enrollment with that id")

	// ErrKeyringDestroyed is returned by operations on a destroyed Keyring.
	ErrKeyringDestroyed = errors.New("keyslot: keyring already destroyed")
)

// TimeProvider abstracts the clock for deterministic testing.
type TimeProvider interface {
	Now() time.Time
}

// DefaultTimeProvider uses the standard library clock.
type DefaultTimeProvider struct{}

// Now returns the current time.
func (DefaultTimeProvider) Now() time.Time { return time.Now() }

// Enrollment records one enrolled unlock method: the slot itself plus the
// bookkeeping the lifecycle manager shows to users. The JSON form is what
// callers persist.
type Enrollment struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"createdAt"`
	Slot      KeySlot   `json:"slot"`
}

// Keyring holds a vault's master key together with the unlock methods
// enrolled for it. It owns its own copy of the master Secret until Destroy;
// the caller keeps ownership of the Secret passed in. All methods are safe
// for concurrent use.
//
// The Keyring performs no I/O. Callers persist the Enrollment records and
// rebuild the ring with RestoreKeyring on next open.
type Keyring struct {
	mu          sync.RWMutex
	master      *securemem.Secret
	enrollments []Enrollment
	destroyed   bool
	time        TimeProvider
}

// NewKeyring starts a ring for a fresh vault around the given 32-byte
// master key. The key is copied; the caller's Secret stays theirs.
func NewKeyring(master *securemem.Secret) (*Keyring, error) {
	return RestoreKeyring(master, nil)
}

// RestoreKeyring rebuilds a ring from a recovered master key and previously
// persisted enrollment records, the reopen counterpart of NewKeyring. The
// records are copied; the ring never aliases the caller's buffers.
func RestoreKeyring(master *securemem.Secret, enrollments []Enrollment) (*Keyring, error) {
	raw, err := keyBytes(master, "master key")
	if err != nil {
		return nil, err
	}
	owned, err := securemem.NewSecret(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to copy master key: %w", err)
	}

	return &Keyring{
		master:      owned,
		enrollments: cloneEnrollments(enrollments),
		time:        DefaultTimeProvider{},
	}, nil
}

// cloneEnrollments copies enrollment records deeply enough that no ciphertext
// backing array is shared between the ring and its callers. A struct copy
// alone leaves Slot.WrappedKey.Ciphertext aliased.
func cloneEnrollments(src []Enrollment) []Enrollment {
	out := make([]Enrollment, len(src))
	for i, e := range src {
		e.Slot.WrappedKey = e.Slot.WrappedKey.Clone()
		out[i] = e
	}
	return out
}

// SetTimeProvider replaces the clock used for enrollment timestamps.
func (k *Keyring) SetTimeProvider(tp TimeProvider) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if tp == nil {
		tp = DefaultTimeProvider{}
	}
	k.time = tp
}

// Enroll wraps the master key under a new credential's wrapping key and
// records the method. The wrapping key is borrowed, not consumed. Other
// enrollments and the master key are untouched.
func (k *Keyring) Enroll(wrappingKey *securemem.Secret, t SlotType, label string) (Enrollment, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.destroyed {
		return Enrollment{}, ErrKeyringDestroyed
	}

	slot, err := CreateSlot(k.master, wrappingKey, t)
	if err != nil {
		return Enrollment{}, err
	}

	e := Enrollment{
		ID:        uuid.New(),
		Label:     label,
		CreatedAt: k.time.Now(),
		Slot:      *slot,
	}
	k.enrollments = append(k.enrollments, e)

	logrus.WithFields(logrus.Fields{
		"function":  "Enroll",
		"id":        e.ID.String(),
		"slot_type": string(t),
		"label":     label,
	}).Info("Unlock method enrolled")

	// Detach the returned record from the stored one.
	e.Slot.WrappedKey = e.Slot.WrappedKey.Clone()
	return e, nil
}

// Revoke removes one enrollment by ID. The master key, the remaining
// enrollments, and anything the master key protects are untouched.
func (k *Keyring) Revoke(id uuid.UUID) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.destroyed {
		return ErrKeyringDestroyed
	}

	for i := range k.enrollments {
		if k.enrollments[i].ID == id {
			k.enrollments = append(k.enrollments[:i], k.enrollments[i+1:]...)
			logrus.WithFields(logrus.Fields{
				"function": "Revoke",
				"id":       id.String(),
			}).Info("Unlock method revoked")
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrSlotNotFound, id)
}

// Unlock recovers the master key through the enrollment with the given ID.
// A wrong credential surfaces as aead.ErrAuthentication. The caller owns
// the returned Secret.
func (k *Keyring) Unlock(wrappingKey *securemem.Secret, id uuid.UUID) (*securemem.Secret, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if k.destroyed {
		return nil, ErrKeyringDestroyed
	}

	for i := range k.enrollments {
		if k.enrollments[i].ID == id {
			return UnwrapSlot(&k.enrollments[i].Slot, wrappingKey)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrSlotNotFound, id)
}

// Slots returns the enrollment records for display or persistence. The
// records are detached copies; mutating them never reaches the ring.
func (k *Keyring) Slots() []Enrollment {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if k.destroyed {
		return nil
	}
	return cloneEnrollments(k.enrollments)
}

// Len returns the number of enrolled unlock methods.
func (k *Keyring) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.enrollments)
}

// Destroy zeroizes the ring's master key copy and drops the enrollment
// records. Idempotent; every later operation returns ErrKeyringDestroyed.
func (k *Keyring) Destroy() {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.destroyed {
		return
	}
	k.master.Destroy()
	k.enrollments = nil
	k.destroyed = true
}
