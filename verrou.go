package verrou

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/arnaultpascual/Verrou-sub001/kdf"
	"github.com/arnaultpascual/Verrou-sub001/keyslot"
	"github.com/arnaultpascual/Verrou-sub001/securemem"
)

// MasterKeyLen is the size in bytes of every vault master key.
const MasterKeyLen = 32

// HardenProcess applies the process-wide protections once at startup: core
// dumps are disabled so a crash cannot write key material to disk. Call it
// before the first secret exists; repeat calls are no-ops.
func HardenProcess() {
	securemem.DisableCoreDumps()
}

// NewMasterKey generates a fresh 32-byte master key from the OS CSPRNG.
// Master keys are never derived from credentials; credentials only ever
// wrap them. The caller owns the returned Secret.
func NewMasterKey() (*securemem.Secret, error) {
	key, err := securemem.NewRandomSecret(MasterKeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to generate master key: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "NewMasterKey",
	}).Info("Master key generated")
	return key, nil
}

// WrapMasterKeyWithPassword is the canonical password enrollment: derive a
// wrapping key from the password with Argon2id, seal the master key under it
// into a password slot, and destroy the wrapping key before returning. The
// caller persists the slot together with salt and params; all three are
// needed verbatim for every later unlock.
func WrapMasterKeyWithPassword(master *securemem.Secret, password, salt []byte, p kdf.Params) (*keyslot.KeySlot, error) {
	wrapping, err := kdf.Derive(password, salt, p)
	if err != nil {
		return nil, err
	}
	defer wrapping.Destroy()

	return keyslot.CreateSlot(master, wrapping, keyslot.SlotPassword)
}

// UnwrapMasterKeyWithPassword is the canonical password unlock, the inverse
// of WrapMasterKeyWithPassword. A wrong password surfaces as
// aead.ErrAuthentication; show the user a generic "incorrect password" and
// nothing more specific. The wrapping key is destroyed on every path; the
// caller owns the returned master key.
func UnwrapMasterKeyWithPassword(slot *keyslot.KeySlot, password, salt []byte, p kdf.Params) (*securemem.Secret, error) {
	wrapping, err := kdf.Derive(password, salt, p)
	if err != nil {
		return nil, err
	}
	defer wrapping.Destroy()

	return keyslot.UnwrapSlot(slot, wrapping)
}
