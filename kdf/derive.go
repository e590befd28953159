package kdf

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/argon2"

	"github.com/arnaultpascual/Verrou-sub001/securemem"
)

// Derive stretches a low-entropy credential into a 32-byte wrapping key
// using Argon2id. The result is identical for an identical (password, salt,
// params) triple; callers persist salt and params and replay them verbatim
// on every unlock.
//
// Salts shorter than 16 bytes are rejected with ErrSaltTooShort. The caller
// owns the returned Secret and must Destroy it.
func Derive(password, salt []byte, p Params) (*securemem.Secret, error) {
	if len(salt) < MinSaltLen {
		return nil, fmt.Errorf("%w: got %d bytes, need at least %d",
			ErrSaltTooShort, len(salt), MinSaltLen)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"function":   "Derive",
		"memory_kib": p.MemoryKiB,
		"iterations": p.Iterations,
		"lanes":      p.Lanes,
	}).Debug("Starting Argon2id derivation")

	start := time.Now()
	raw := argon2.IDKey(password, salt, p.Iterations, p.MemoryKiB, p.Lanes, KeyLen)

	key, err := securemem.NewSecret(raw)
	securemem.Wipe(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to store derived key: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"function":    "Derive",
		"memory_kib":  p.MemoryKiB,
		"iterations":  p.Iterations,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Argon2id derivation complete")

	return key, nil
}
