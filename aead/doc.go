// Package aead is the single authenticated-encryption primitive of the
// vault core. Every at-rest confidentiality-plus-integrity need in the
// system goes through it: the key-slot system wraps the master key with it,
// and the attachment, export, and transfer subsystems seal their payloads
// with it under their own associated-data tags.
//
// The cipher is ChaCha20-Poly1305 (RFC 8439): a 32-byte key, a 12-byte
// nonce drawn fresh from the OS CSPRNG on every [Seal], and a 16-byte
// authentication tag. Ciphertext length always equals plaintext length, so
// a sealed value is exactly [Overhead] bytes larger than its plaintext.
//
// # Associated data and domain separation
//
// The aad argument is authenticated but never encrypted: it binds a sealed
// value to its context without being recoverable from the ciphertext.
// Each consumer passes a fixed tag for its domain (the key-slot system one
// tag per unlock method, the export subsystem its own) so a blob sealed in
// one context can never be opened in another, even under the correct key.
//
// # Failure semantics
//
// [Open] reports exactly one failure, [ErrAuthentication], whether the key
// is wrong, the nonce, ciphertext, or tag was tampered with, or the aad does
// not match. Callers must not attempt to distinguish these causes; the
// single outcome is what keeps a wrong password indistinguishable from a
// corrupted vault to an observer.
//
// # Wire encoding
//
// [SealedData] round-trips through a fixed binary layout,
// nonce || ciphertext || tag, with no padding or framing. Any encoding
// shorter than the 28-byte minimum is rejected before any cryptographic
// work is attempted.
package aead
