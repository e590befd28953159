package keyslot

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnaultpascual/Verrou-sub001/aead"
	"github.com/arnaultpascual/Verrou-sub001/securemem"
)

var slotTypes = []SlotType{SlotPassword, SlotBiometric, SlotRecovery, SlotHardware}

func secretOf(t testing.TB, b []byte) *securemem.Secret {
	t.Helper()
	s, err := securemem.NewSecret(b)
	require.NoError(t, err)
	return s
}

// fixtureKey builds a 32-byte wrapping key of one repeated byte, the
// deterministic fixtures the cross-method cases are written against.
func fixtureKey(t testing.TB, fill byte) *securemem.Secret {
	t.Helper()
	return secretOf(t, bytes.Repeat([]byte{fill}, aead.KeySize))
}

func randomKey(t testing.TB) *securemem.Secret {
	t.Helper()
	s, err := securemem.NewRandomSecret(aead.KeySize)
	require.NoError(t, err)
	return s
}

func TestCreateUnwrapRoundTrip(t *testing.T) {
	master := randomKey(t)
	defer master.Destroy()

	for _, st := range slotTypes {
		t.Run(string(st), func(t *testing.T) {
			wrapping := randomKey(t)
			defer wrapping.Destroy()

			slot, err := CreateSlot(master, wrapping, st)
			require.NoError(t, err)
			assert.Equal(t, st, slot.Type)

			recovered, err := UnwrapSlot(slot, wrapping)
			require.NoError(t, err)
			defer recovered.Destroy()

			assert.True(t, recovered.Equal(master),
				"unwrap must return the identical master key")
		})
	}
}

// TestDomainSeparationMatrix checks every ordered pair of slot types: a slot
// created under one type must unwrap only under that same type, even with
// the correct wrapping key in hand.
func TestDomainSeparationMatrix(t *testing.T) {
	master := randomKey(t)
	defer master.Destroy()
	wrapping := randomKey(t)
	defer wrapping.Destroy()

	for _, created := range slotTypes {
		for _, presented := range slotTypes {
			t.Run(string(created)+"_as_"+string(presented), func(t *testing.T) {
				slot, err := CreateSlot(master, wrapping, created)
				require.NoError(t, err)

				slot.Type = presented

				recovered, err := UnwrapSlot(slot, wrapping)
				if created == presented {
					require.NoError(t, err)
					defer recovered.Destroy()
					assert.True(t, recovered.Equal(master))
					return
				}
				assert.ErrorIs(t, err, aead.ErrAuthentication,
					"relabeled slot must fail authentication, not leak the key")
			})
		}
	}
}

func TestRelabeledPasswordSlotFailsAsBiometric(t *testing.T) {
	master := randomKey(t)
	defer master.Destroy()
	wrapping := randomKey(t)
	defer wrapping.Destroy()

	slot, err := CreateSlot(master, wrapping, SlotPassword)
	require.NoError(t, err)

	// Relabel the stored record without re-encrypting anything.
	slot.Type = SlotBiometric

	_, err = UnwrapSlot(slot, wrapping)
	assert.ErrorIs(t, err, aead.ErrAuthentication)
}

// TestCrossMethodConsistency wraps one master key independently under three
// methods and verifies every slot yields the byte-identical key.
func TestCrossMethodConsistency(t *testing.T) {
	master := randomKey(t)
	defer master.Destroy()

	enrollments := []struct {
		slotType SlotType
		wrapping *securemem.Secret
	}{
		{SlotPassword, fixtureKey(t, 0x01)},
		{SlotBiometric, fixtureKey(t, 0x02)},
		{SlotRecovery, fixtureKey(t, 0x03)},
	}

	for _, e := range enrollments {
		defer e.wrapping.Destroy()

		slot, err := CreateSlot(master, e.wrapping, e.slotType)
		require.NoError(t, err)

		recovered, err := UnwrapSlot(slot, e.wrapping)
		require.NoError(t, err, "slot type %s", e.slotType)
		defer recovered.Destroy()

		assert.True(t, recovered.Equal(master),
			"slot type %s unwrapped a different master key", e.slotType)
	}
}

func TestUnwrapWithWrongKeyFails(t *testing.T) {
	master := randomKey(t)
	defer master.Destroy()
	wrapping := randomKey(t)
	defer wrapping.Destroy()

	slot, err := CreateSlot(master, wrapping, SlotPassword)
	require.NoError(t, err)

	wrong := randomKey(t)
	defer wrong.Destroy()

	_, err = UnwrapSlot(slot, wrong)
	assert.ErrorIs(t, err, aead.ErrAuthentication)
}

func TestUnwrapTamperedSlotFails(t *testing.T) {
	master := randomKey(t)
	defer master.Destroy()
	wrapping := randomKey(t)
	defer wrapping.Destroy()

	slot, err := CreateSlot(master, wrapping, SlotRecovery)
	require.NoError(t, err)

	slot.WrappedKey.Ciphertext[0] ^= 0x01

	_, err = UnwrapSlot(slot, wrapping)
	assert.ErrorIs(t, err, aead.ErrAuthentication)
}

func TestCreateSlotRejectsBadKeyMaterial(t *testing.T) {
	good := randomKey(t)
	defer good.Destroy()

	for _, n := range []int{0, 16, 31, 33} {
		short := secretOf(t, make([]byte, n))
		_, err := CreateSlot(short, good, SlotPassword)
		assert.ErrorIs(t, err, ErrInvalidKeyMaterial, "master key of %d bytes", n)

		_, err = CreateSlot(good, short, SlotPassword)
		assert.ErrorIs(t, err, ErrInvalidKeyMaterial, "wrapping key of %d bytes", n)
		short.Destroy()
	}

	_, err := CreateSlot(nil, good, SlotPassword)
	assert.ErrorIs(t, err, ErrInvalidKeyMaterial)

	destroyed := randomKey(t)
	destroyed.Destroy()
	_, err = CreateSlot(destroyed, good, SlotPassword)
	assert.ErrorIs(t, err, ErrInvalidKeyMaterial,
		"a destroyed Secret is no longer key material")
}

func TestUnwrapSlotRejectsBadKeyMaterial(t *testing.T) {
	master := randomKey(t)
	defer master.Destroy()
	wrapping := randomKey(t)
	defer wrapping.Destroy()

	slot, err := CreateSlot(master, wrapping, SlotHardware)
	require.NoError(t, err)

	_, err = UnwrapSlot(nil, wrapping)
	assert.ErrorIs(t, err, ErrInvalidKeyMaterial)

	_, err = UnwrapSlot(slot, nil)
	assert.ErrorIs(t, err, ErrInvalidKeyMaterial)

	short := secretOf(t, make([]byte, 16))
	defer short.Destroy()
	_, err = UnwrapSlot(slot, short)
	assert.ErrorIs(t, err, ErrInvalidKeyMaterial)
}

func TestUnknownSlotTypeRejected(t *testing.T) {
	master := randomKey(t)
	defer master.Destroy()
	wrapping := randomKey(t)
	defer wrapping.Destroy()

	for _, st := range []SlotType{"", "totp", "PASSWORD"} {
		_, err := CreateSlot(master, wrapping, st)
		assert.ErrorIs(t, err, ErrUnknownSlotType, "type %q", st)
	}

	slot, err := CreateSlot(master, wrapping, SlotPassword)
	require.NoError(t, err)
	slot.Type = "totp"

	_, err = UnwrapSlot(slot, wrapping)
	assert.ErrorIs(t, err, ErrUnknownSlotType)
}

func TestSlotTypeValid(t *testing.T) {
	tests := []struct {
		slotType SlotType
		want     bool
	}{
		{SlotPassword, true},
		{SlotBiometric, true},
		{SlotRecovery, true},
		{SlotHardware, true},
		{SlotType(""), false},
		{SlotType("totp"), false},
		{SlotType("Password"), false},
	}

	for _, tt := range tests {
		if got := tt.slotType.Valid(); got != tt.want {
			t.Errorf("SlotType(%q).Valid() = %v, want %v", tt.slotType, got, tt.want)
		}
	}
}

func TestKeySlotJSONFormat(t *testing.T) {
	master := randomKey(t)
	defer master.Destroy()
	wrapping := randomKey(t)
	defer wrapping.Destroy()

	slot, err := CreateSlot(master, wrapping, SlotPassword)
	require.NoError(t, err)

	blob, err := json.Marshal(slot)
	require.NoError(t, err)

	// Field names are the persisted format.
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(blob, &fields))
	assert.Contains(t, fields, "slotType")
	assert.Contains(t, fields, "wrappedKey")
	assert.JSONEq(t, `"password"`, string(fields["slotType"]))

	var restored KeySlot
	require.NoError(t, json.Unmarshal(blob, &restored))

	recovered, err := UnwrapSlot(&restored, wrapping)
	require.NoError(t, err)
	defer recovered.Destroy()
	assert.True(t, recovered.Equal(master))
}
