package kdf

import (
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lightParams keeps unit tests fast; production costs are exercised by the
// calibration probe and the benchmarks.
var lightParams = Params{MemoryKiB: 1024, Iterations: 1, Lanes: 1}

func TestDeriveIsDeterministic(t *testing.T) {
	password := []byte("correct-horse")
	salt := []byte("0123456789abcdef")

	first, err := Derive(password, salt, lightParams)
	require.NoError(t, err)
	defer first.Destroy()

	second, err := Derive(password, salt, lightParams)
	require.NoError(t, err)
	defer second.Destroy()

	assert.Equal(t, KeyLen, first.Len())
	assert.True(t, first.Equal(second),
		"identical inputs must yield the identical key")
}

func TestDeriveAvalanche(t *testing.T) {
	password := []byte("correct-horse")
	salt := []byte("0123456789abcdef")

	base, err := Derive(password, salt, lightParams)
	require.NoError(t, err)
	defer base.Destroy()

	flipped := make([]byte, len(password))
	copy(flipped, password)
	flipped[0] ^= 0x01

	other, err := Derive(flipped, salt, lightParams)
	require.NoError(t, err)
	defer other.Destroy()

	var differing int
	baseBytes, otherBytes := base.Bytes(), other.Bytes()
	for i := range baseBytes {
		differing += bits.OnesCount8(baseBytes[i] ^ otherBytes[i])
	}

	totalBits := KeyLen * 8
	assert.GreaterOrEqual(t, differing, totalBits*30/100,
		"one flipped input bit changed too few output bits")
	assert.LessOrEqual(t, differing, totalBits*70/100,
		"one flipped input bit changed too many output bits")
}

func TestDeriveInputSensitivity(t *testing.T) {
	salt := []byte("0123456789abcdef")

	base, err := Derive([]byte("password"), salt, lightParams)
	require.NoError(t, err)
	defer base.Destroy()

	otherSalt, err := Derive([]byte("password"), []byte("fedcba9876543210"), lightParams)
	require.NoError(t, err)
	defer otherSalt.Destroy()
	assert.False(t, base.Equal(otherSalt), "salt must change the output")

	otherCost := lightParams
	otherCost.Iterations = 2
	moreWork, err := Derive([]byte("password"), salt, otherCost)
	require.NoError(t, err)
	defer moreWork.Destroy()
	assert.False(t, base.Equal(moreWork), "cost parameters must change the output")
}

func TestDeriveRejectsShortSalt(t *testing.T) {
	for _, n := range []int{0, 1, 8, 15} {
		_, err := Derive([]byte("password"), make([]byte, n), lightParams)
		assert.ErrorIs(t, err, ErrSaltTooShort, "salt length %d must be rejected", n)
	}

	key, err := Derive([]byte("password"), make([]byte, MinSaltLen), lightParams)
	require.NoError(t, err, "16-byte salt is the accepted minimum")
	key.Destroy()
}

func TestDeriveRejectsInvalidParams(t *testing.T) {
	_, err := Derive([]byte("password"), []byte("0123456789abcdef"),
		Params{MemoryKiB: 1024, Iterations: 0, Lanes: 1})
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func BenchmarkDeriveFastPreset(b *testing.B) {
	params, err := ParamsFor(PresetFast)
	if err != nil {
		b.Fatal(err)
	}
	password := []byte("benchmark-password")
	salt := []byte("0123456789abcdef")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key, err := Derive(password, salt, params)
		if err != nil {
			b.Fatal(err)
		}
		key.Destroy()
	}
}
