// Package keyslot lets one randomly-generated master key be unlocked by any
// of several independent credentials.
//
// Each unlock method owns a slot: the master key sealed under that method's
// wrapping key, with the method's fixed domain tag bound in as AAD. Methods
// are fully isolated from each other. Enrolling a new method or revoking an
// existing one touches exactly one slot record; the master key, the other
// slots, and everything the master key protects stay untouched.
//
// # Slot Types and Domain Separation
//
// Four slot types are declared, and their string values are part of the
// persisted format:
//
//   - [SlotPassword]: wrapping key from kdf.Derive
//   - [SlotBiometric]: wrapping key from kdf.ExpandToken
//   - [SlotRecovery]: wrapping key from a recovery credential
//   - [SlotHardware]: wrapping key from a hardware token
//
// Every type maps to a distinct AAD tag of the form "verrou/slot/<type>/v1".
// A slot created as one type never unwraps as another: relabeling a stored
// record, accidentally or deliberately, yields an authentication failure,
// never a silent success with the wrong semantics.
//
// # Wrapping and Unwrapping
//
//	slot, err := keyslot.CreateSlot(masterKey, wrappingKey, keyslot.SlotPassword)
//	if err != nil {
//	    return err
//	}
//	// persist slot (JSON) ...
//
//	master, err := keyslot.UnwrapSlot(slot, wrappingKey)
//	if errors.Is(err, aead.ErrAuthentication) {
//	    // wrong credential; report generically and nothing more
//	}
//
// An authentication failure from UnwrapSlot is the expected outcome of a
// wrong credential and carries no detail about the cause.
//
// # Keyring
//
// [Keyring] adds enrollment bookkeeping on top of the slot primitives for
// the vault lifecycle manager: labelled, timestamped [Enrollment] records
// with unique IDs, safe for concurrent use. The Keyring performs no I/O;
// the caller persists the records and restores the ring on next open.
package keyslot
