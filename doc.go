// Package verrou is the cryptographic core of a local secrets vault.
//
// It covers four concerns and deliberately nothing else: secure containers
// for key material in process memory, memory-hard derivation of keys from
// credentials, a single authenticated-encryption primitive, and a key-slot
// system that lets one master key be unlocked by several independent
// credentials. Persistence, sync, and UI live with the callers; this package
// and its subpackages perform no network or disk I/O.
//
// # Subpackages
//
//   - securemem: page-locked, zeroized, log-masked containers for secrets
//   - kdf: tiered Argon2id derivation with host calibration
//   - aead: ChaCha20-Poly1305 sealing with domain-separating AAD
//   - keyslot: multi-method key slots and enrollment bookkeeping
//
// This root package ties them together into the canonical vault flows.
//
// # Creating a Vault
//
//	verrou.HardenProcess()
//
//	master, err := verrou.NewMasterKey()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer master.Destroy()
//
//	salt, _ := kdf.NewSalt()
//	presets, err := kdf.Calibrate()
//	if err != nil {
//	    log.Fatal(err) // this host cannot sustain even the minimal tier
//	}
//
//	slot, err := verrou.WrapMasterKeyWithPassword(master, password, salt, presets.Balanced)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// persist slot, salt, and presets.Balanced alongside the vault
//
// # Unlocking
//
//	master, err := verrou.UnwrapMasterKeyWithPassword(slot, password, salt, params)
//	if errors.Is(err, aead.ErrAuthentication) {
//	    // wrong password; report generically, the error carries no detail
//	}
//	defer master.Destroy()
//
// Additional unlock methods enroll through keyslot directly: derive or
// expand a wrapping key per method, then keyslot.CreateSlot with the
// method's slot type. Every enrolled slot unwraps to the identical master
// key.
//
// # Error Taxonomy
//
// Outcomes are explicit return values throughout; nothing panics across an
// API boundary:
//
//   - keyslot.ErrInvalidKeyMaterial, aead.ErrInvalidKeySize: wrong-length
//     keys, a caller wiring bug
//   - kdf.ErrSaltTooShort, kdf.ErrInvalidParams: unusable derivation inputs
//   - aead.ErrAuthentication: wrong credential or tampered data, the one
//     outcome safe to show end users (generically)
//   - securemem.ErrRandomSource: the OS CSPRNG is unavailable, fatal
//   - kdf.ErrCalibration: no feasible memory tier, vault creation must stop
//
// # Concurrency
//
// All operations are synchronous and, beyond their explicit inputs, share
// no state. Key derivation blocks for up to a few seconds by construction;
// keep it off latency-sensitive goroutines.
package verrou
