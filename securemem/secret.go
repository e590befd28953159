package securemem

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// maskedRendering is what every textual form of a Secret shows. The mask is
// fixed so that neither length nor content can be inferred from output.
const maskedRendering = "Secret(****)"

var (
	// ErrRandomSource indicates the operating system CSPRNG failed. This is
	// always a hard error: no Secret is ever built from partial randomness.
	ErrRandomSource = errors.New("securemem: system random source unavailable")

	// ErrMemoryLock indicates page-locking was refused while the package is
	// in require-locking mode. In the default soft-fail mode lock refusal
	// only triggers the one-time warning and never surfaces as an error.
	ErrMemoryLock = errors.New("securemem: failed to lock secret memory")
)

// requireLocking promotes mlock refusal from a warning to a construction
// error. Set once at startup via RequireLocking.
var requireLocking atomic.Bool

// lockWarned guards the process-wide "page locking unavailable" warning.
var lockWarned atomic.Bool

// RequireLocking switches the package into hard-fail mode: constructing a
// Secret returns ErrMemoryLock when the platform refuses to page-lock the
// backing memory. The default is soft-fail; hosts with tight RLIMIT_MEMLOCK
// quotas would otherwise be unable to open their vault at all. Call once at
// startup, before any Secret exists.
func RequireLocking(require bool) {
	requireLocking.Store(require)
}

// Secret holds key material in a heap allocation that is page-locked on a
// best-effort basis and zeroized on Destroy. The zero value is unusable;
// construct via NewSecret or NewRandomSecret.
type Secret struct {
	buf    []byte
	locked bool
}

// NewSecret copies b into a fresh locked allocation and returns the
// container. The caller keeps ownership of b and should wipe it when the
// original is no longer needed.
//
// The backing array is heap-allocated and never reallocated afterwards, so
// the address the lock call sees is the address Destroy unlocks.
func NewSecret(b []byte) (*Secret, error) {
	s := &Secret{buf: make([]byte, len(b))}
	copy(s.buf, b)

	if err := s.lock(); err != nil {
		if requireLocking.Load() {
			s.Destroy()
			return nil, fmt.Errorf("%w: %v", ErrMemoryLock, err)
		}
		warnLockUnavailable(err)
	}

	runtime.SetFinalizer(s, finalizeSecret)
	return s, nil
}

// NewRandomSecret returns a Secret filled with n bytes from the operating
// system CSPRNG. A short or failed read is a hard error and no Secret is
// returned.
func NewRandomSecret(n int) (*Secret, error) {
	s := &Secret{buf: make([]byte, n)}
	if _, err := io.ReadFull(rand.Reader, s.buf); err != nil {
		s.Destroy()
		logrus.WithFields(logrus.Fields{
			"function": "NewRandomSecret",
			"length":   n,
			"error":    err.Error(),
		}).Error("CSPRNG read failed")
		return nil, fmt.Errorf("%w: %v", ErrRandomSource, err)
	}

	if err := s.lock(); err != nil {
		if requireLocking.Load() {
			s.Destroy()
			return nil, fmt.Errorf("%w: %v", ErrMemoryLock, err)
		}
		warnLockUnavailable(err)
	}

	runtime.SetFinalizer(s, finalizeSecret)
	return s, nil
}

// lock page-locks the backing array. Empty Secrets have nothing to pin.
func (s *Secret) lock() error {
	if len(s.buf) == 0 {
		return nil
	}
	if err := lockMemory(s.buf); err != nil {
		return err
	}
	s.locked = true
	return nil
}

// Bytes returns a borrowed view of the secret bytes. The view aliases the
// locked allocation: it is valid until Destroy and must not be retained
// beyond it. After Destroy, Bytes returns nil.
func (s *Secret) Bytes() []byte {
	if s.buf == nil {
		return nil
	}
	return s.buf
}

// Len returns the secret length in bytes, or 0 after Destroy.
func (s *Secret) Len() int {
	return len(s.buf)
}

// Destroyed reports whether Destroy has already run.
func (s *Secret) Destroyed() bool {
	return s.buf == nil
}

// Equal compares two Secrets in constant time. Destroyed Secrets compare
// equal only to other destroyed Secrets; a live empty Secret is not equal
// to a destroyed one.
func (s *Secret) Equal(other *Secret) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.Destroyed() != other.Destroyed() {
		return false
	}
	if len(s.buf) != len(other.buf) {
		return false
	}
	return subtle.ConstantTimeCompare(s.buf, other.buf) == 1
}

// Destroy zeroizes the secret bytes, releases the page lock, and detaches
// the backing memory. It is idempotent and safe to defer at acquisition.
func (s *Secret) Destroy() {
	if s.buf == nil {
		return
	}
	Wipe(s.buf)
	if s.locked {
		if err := unlockMemory(s.buf); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Destroy",
				"error":    err.Error(),
			}).Debug("Munlock failed during secret teardown")
		}
		s.locked = false
	}
	s.buf = nil
	runtime.SetFinalizer(s, nil)
}

// String implements fmt.Stringer with the fixed mask.
func (s *Secret) String() string {
	return maskedRendering
}

// Format implements fmt.Formatter so that every verb (%v, %s, %x, %#v and
// the rest) renders the mask. Without this, reflection-driven formatting
// could walk the unexported buffer.
func (s Secret) Format(f fmt.State, verb rune) {
	io.WriteString(f, maskedRendering)
}

// finalizeSecret is the backstop for Secrets that were never destroyed by
// their owner. Zeroization still happens; the leak is worth knowing about.
func finalizeSecret(s *Secret) {
	logrus.WithFields(logrus.Fields{
		"function": "finalizeSecret",
		"length":   len(s.buf),
	}).Debug("Secret collected without explicit Destroy")
	s.Destroy()
}

// warnLockUnavailable emits the process-wide page-lock warning exactly once.
// Subsequent refusals are expected (the quota does not grow back) and would
// only drown the log.
func warnLockUnavailable(err error) {
	if !lockWarned.CompareAndSwap(false, true) {
		return
	}
	logrus.WithFields(logrus.Fields{
		"function": "warnLockUnavailable",
		"error":    err.Error(),
	}).Warn("Page locking unavailable; secrets may be swapped to disk")
}

// Wipe overwrites b with zeros. The copy through a zero source plus the
// KeepAlive fence keeps the compiler from eliding the store.
func Wipe(b []byte) {
	if len(b) == 0 {
		return
	}
	zeros := make([]byte, len(b))
	subtle.ConstantTimeCompare(b, zeros)
	copy(b, zeros)
	runtime.KeepAlive(b)
	runtime.KeepAlive(zeros)
}
