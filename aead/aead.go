package aead

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	// KeySize is the only accepted key length, in bytes.
	KeySize = chacha20poly1305.KeySize
	// NonceSize is the length of the random per-seal nonce, in bytes.
	NonceSize = chacha20poly1305.NonceSize
	// TagSize is the length of the authentication tag, in bytes.
	TagSize = chacha20poly1305.Overhead
	// Overhead is the fixed size a sealed value adds over its plaintext:
	// nonce plus tag, independent of payload length.
	Overhead = NonceSize + TagSize
)

var (
	// ErrInvalidKeySize is returned when a key is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.New("aead: key must be exactly 32 bytes")

	// ErrAuthentication is the single failure outcome of Open. It covers a
	// wrong key, a tampered nonce, ciphertext, or tag, and an aad mismatch
	// without distinguishing between them.
	ErrAuthentication = errors.New("aead: message authentication failed")

	// ErrSealedTooShort is returned when a wire encoding is shorter than
	// the 28-byte minimum of an empty-plaintext sealed value.
	ErrSealedTooShort = errors.New("aead: sealed data shorter than minimum encoding")
)

// Seal encrypts plaintext under key, authenticating aad alongside it. The
// nonce is generated fresh from the OS CSPRNG for every call; the same key
// may seal any number of values. An empty plaintext is valid and produces
// an empty ciphertext with a live tag.
func Seal(plaintext, key, aad []byte) (SealedData, error) {
	if len(key) != KeySize {
		return SealedData{}, ErrInvalidKeySize
	}

	cipher, err := chacha20poly1305.New(key)
	if err != nil {
		return SealedData{}, fmt.Errorf("aead: cipher init: %w", err)
	}

	var sealed SealedData
	if _, err := io.ReadFull(rand.Reader, sealed.Nonce[:]); err != nil {
		return SealedData{}, fmt.Errorf("aead: nonce generation: %w", err)
	}

	// chacha20poly1305 fuses ciphertext and tag; split them back into the
	// wire model's separate fields.
	fused := cipher.Seal(nil, sealed.Nonce[:], plaintext, aad)
	sealed.Ciphertext = fused[:len(plaintext)]
	copy(sealed.Tag[:], fused[len(plaintext):])

	logrus.WithFields(logrus.Fields{
		"function":       "Seal",
		"plaintext_size": len(plaintext),
		"aad_size":       len(aad),
	}).Debug("Payload sealed")

	return sealed, nil
}

// Open decrypts sealed under key, verifying the tag over nonce, ciphertext,
// and aad. Any verification failure (wrong key, tampering, aad mismatch)
// returns ErrAuthentication and nothing else; no plaintext is ever returned
// from a failed authentication.
func Open(sealed SealedData, key, aad []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}

	cipher, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("aead: cipher init: %w", err)
	}

	fused := make([]byte, 0, len(sealed.Ciphertext)+TagSize)
	fused = append(fused, sealed.Ciphertext...)
	fused = append(fused, sealed.Tag[:]...)

	plaintext, err := cipher.Open(nil, sealed.Nonce[:], fused, aad)
	if err != nil {
		// One message for every cause. Distinguishing them here would leak
		// exactly what the single-outcome contract exists to hide.
		logrus.WithFields(logrus.Fields{
			"function": "Open",
		}).Debug("Authentication failed")
		return nil, ErrAuthentication
	}

	return plaintext, nil
}
