// Package kdf derives wrapping keys from low-entropy credentials using the
// Argon2id memory-hard function, tuned to the capabilities of the host it
// runs on.
//
// Every password-based unlock path in verrou goes through [Derive]. The cost
// parameters are explicit, persisted by the caller alongside the vault, and
// reused verbatim for every later derivation: derivation is deterministic for
// an identical (password, salt, params) triple and nothing else.
//
// # Presets and Calibration
//
// Three preset tiers cover the usual trade-offs:
//
//   - [PresetFast]: 256 MiB, 2 iterations - interactive unlocks
//   - [PresetBalanced]: 512 MiB, 3 iterations - the default
//   - [PresetMaximum]: 512 MiB, 4 iterations - high-value vaults
//
// The presets assume a host that can spare half a gigabyte. [Calibrate]
// probes what the machine can actually do, walking down from 512 MiB and
// accepting the first tier that completes a trial derivation in time:
//
//	presets, err := kdf.Calibrate()
//	if err != nil {
//	    // even 128 MiB is infeasible here; vault creation must not proceed
//	    log.Fatal(err)
//	}
//	params := presets.Balanced
//
// When calibration caps a preset below its default memory, the iteration
// count scales up in inverse proportion so that the total work stays roughly
// constant: half the memory means twice the passes. Calibration never falls
// back silently below 128 MiB; it returns [ErrCalibration] instead.
//
// # Deriving a Wrapping Key
//
//	salt, _ := kdf.NewSalt()
//	key, err := kdf.Derive([]byte(password), salt, params)
//	if err != nil {
//	    return err
//	}
//	defer key.Destroy()
//
// The derived key lives in a [securemem.Secret] and is 32 bytes, sized for
// the aead package. Salts shorter than 16 bytes are rejected.
//
// # High-Entropy Tokens
//
// Biometric and hardware-token providers hand over bytes that are already
// uniformly random, so burning hundreds of megabytes on them buys nothing.
// [ExpandToken] is the fast path for that material, an HKDF-SHA256 expansion
// with a caller-chosen domain string:
//
//	key, err := kdf.ExpandToken(tokenBytes, "verrou/provider/fingerprint")
//
// Inputs below 32 bytes are refused ([ErrWeakToken]); this path must never
// be fed passwords.
//
// # Resource Model
//
// Derive and Calibrate are deliberately CPU- and memory-bound and block the
// calling goroutine for up to a few seconds. Run them off latency-sensitive
// paths. All functions are safe for concurrent use; they share no state.
package kdf
