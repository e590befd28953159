// Package securemem provides opaque containers for cryptographic key
// material held in process memory.
//
// Every secret handled by the vault core (the master key, per-credential
// wrapping keys, derived intermediates) lives inside a [Secret]. The
// container gives three guarantees that a bare []byte cannot:
//
//   - Best-effort residency: the backing allocation is page-locked with
//     mlock(2) where the platform supports it, so key bytes are not written
//     to swap. A refused lock degrades softly: the Secret keeps working,
//     and a process-wide warning is logged exactly once.
//   - Guaranteed zeroization: [Secret.Destroy] overwrites every byte before
//     the memory is released, on success and failure paths alike. A runtime
//     finalizer backstops Secrets that escape their owning scope.
//   - Masked rendering: formatting a Secret with any fmt verb, or calling
//     [Secret.String], yields the fixed mask "Secret(****)" independent of
//     length or content, so key bytes never reach logs or debug output.
//
// # Usage
//
//	master, err := securemem.NewRandomSecret(32)
//	if err != nil {
//	    return err
//	}
//	defer master.Destroy()
//
//	raw := master.Bytes() // borrowed view, valid until Destroy
//
// The view returned by [Secret.Bytes] is borrowed: it aliases the locked
// allocation and must not be retained past Destroy. Callers that need an
// owned copy must make one explicitly and are then responsible for wiping
// it with [Wipe].
//
// # Process hardening
//
// [DisableCoreDumps] lowers RLIMIT_CORE to zero so a crash cannot spill key
// material into a core file. It is an explicit, idempotent call the host
// process makes once at startup; it is deliberately not a hidden side effect
// of constructing a Secret.
//
// # Concurrency
//
// Construction, Bytes, and Destroy are not synchronized against each other;
// a Secret is owned by one scope at a time, which matches how the vault core
// uses them. The one-shot lock warning and the core-dump switch are the only
// process-wide state and are guarded internally.
package securemem
