package aead

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// SealedData is the output of Seal: a random nonce, a ciphertext exactly as
// long as the plaintext, and the authentication tag covering both plus the
// associated data.
type SealedData struct {
	Nonce      [NonceSize]byte
	Ciphertext []byte
	Tag        [TagSize]byte
}

// EncodedSize returns the length of the wire encoding: Overhead plus the
// ciphertext length.
func (sd SealedData) EncodedSize() int {
	return Overhead + len(sd.Ciphertext)
}

// Clone returns a SealedData whose ciphertext has its own backing array.
// Nonce and Tag are value arrays and copy with the struct; the ciphertext
// slice is the one field that would otherwise stay shared.
func (sd SealedData) Clone() SealedData {
	out := sd
	out.Ciphertext = make([]byte, len(sd.Ciphertext))
	copy(out.Ciphertext, sd.Ciphertext)
	return out
}

// MarshalBinary encodes the sealed value as nonce || ciphertext || tag with
// no padding. The minimum output is Overhead (28) bytes, for an empty
// plaintext.
func (sd SealedData) MarshalBinary() ([]byte, error) {
	out := make([]byte, 0, sd.EncodedSize())
	out = append(out, sd.Nonce[:]...)
	out = append(out, sd.Ciphertext...)
	out = append(out, sd.Tag[:]...)
	return out, nil
}

// UnmarshalBinary decodes a nonce || ciphertext || tag encoding. Inputs
// shorter than Overhead are rejected with ErrSealedTooShort before any
// cryptographic operation could see them. The decoded fields are owned
// copies; the input slice may be reused afterwards.
func (sd *SealedData) UnmarshalBinary(data []byte) error {
	if len(data) < Overhead {
		return fmt.Errorf("%w: got %d bytes, minimum %d", ErrSealedTooShort, len(data), Overhead)
	}

	copy(sd.Nonce[:], data[:NonceSize])
	body := data[NonceSize : len(data)-TagSize]
	sd.Ciphertext = make([]byte, len(body))
	copy(sd.Ciphertext, body)
	copy(sd.Tag[:], data[len(data)-TagSize:])
	return nil
}

// ParseSealedData decodes a wire encoding produced by MarshalBinary.
func ParseSealedData(data []byte) (SealedData, error) {
	var sd SealedData
	if err := sd.UnmarshalBinary(data); err != nil {
		return SealedData{}, err
	}
	return sd, nil
}

// MarshalJSON encodes the wire bytes as a base64 JSON string, which is how
// sealed values appear inside persisted key-slot records.
func (sd SealedData) MarshalJSON() ([]byte, error) {
	wire, err := sd.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return json.Marshal(base64.StdEncoding.EncodeToString(wire))
}

// UnmarshalJSON decodes the base64 JSON string form.
func (sd *SealedData) UnmarshalJSON(data []byte) error {
	var encoded string
	if err := json.Unmarshal(data, &encoded); err != nil {
		return fmt.Errorf("aead: sealed data JSON form: %w", err)
	}
	wire, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("aead: sealed data base64 form: %w", err)
	}
	return sd.UnmarshalBinary(wire)
}
