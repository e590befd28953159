package kdf

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/hkdf"

	"github.com/arnaultpascual/Verrou-sub001/securemem"
)

// MinTokenLen is the smallest input ExpandToken accepts. Anything shorter
// is not high-entropy provider material and belongs on the Derive path.
const MinTokenLen = 32

// ErrWeakToken indicates an ExpandToken input below the 32-byte minimum.
var ErrWeakToken = errors.New("kdf: token too short for fast expansion")

// ExpandToken turns already-high-entropy provider bytes (biometric unlock
// tokens, hardware-key secrets) into a 32-byte wrapping key via HKDF-SHA256.
// The info string separates key domains between providers; two providers
// expanding the same token under different info strings get unrelated keys.
//
// This is the fast path and assumes uniform input. Passwords and anything
// else a human chose must go through Derive instead.
func ExpandToken(token []byte, info string) (*securemem.Secret, error) {
	if len(token) < MinTokenLen {
		return nil, fmt.Errorf("%w: got %d bytes, need at least %d",
			ErrWeakToken, len(token), MinTokenLen)
	}

	logrus.WithFields(logrus.Fields{
		"function":  "ExpandToken",
		"token_len": len(token),
		"info":      info,
	}).Debug("Expanding provider token")

	raw := make([]byte, KeyLen)
	reader := hkdf.New(sha256.New, token, nil, []byte(info))
	if _, err := io.ReadFull(reader, raw); err != nil {
		securemem.Wipe(raw)
		return nil, fmt.Errorf("failed to expand token: %w", err)
	}

	key, err := securemem.NewSecret(raw)
	securemem.Wipe(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to store expanded key: %w", err)
	}
	return key, nil
}
