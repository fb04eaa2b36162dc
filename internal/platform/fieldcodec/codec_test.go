package fieldcodec

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func testKey(b byte) []byte {
	return bytes.Repeat([]byte{b}, 32)
}

func TestRoundTrip(t *testing.T) {
	codec, err := New(testKey(0x41))
	require.NoError(t, err)

	for _, plaintext := range []string{
		"",
		"OPORD 22-117",
		"Très Secret Défense",
		"a longer authorization reference with spaces and punctuation: MOU 2024/17(b)",
	} {
		sealed, err := codec.Encrypt(plaintext)
		require.NoError(t, err)
		require.NotEqual(t, plaintext, sealed)

		opened, err := codec.Decrypt(sealed)
		require.NoError(t, err)
		require.Equal(t, plaintext, opened)
	}
}

func TestNonceUniqueness(t *testing.T) {
	codec, err := New(testKey(0x41))
	require.NoError(t, err)

	first, err := codec.Encrypt("SECRET")
	require.NoError(t, err)
	second, err := codec.Encrypt("SECRET")
	require.NoError(t, err)

	// Same plaintext must never produce the same ciphertext.
	require.NotEqual(t, first, second)
}

func TestTamperDetection(t *testing.T) {
	codec, err := New(testKey(0x41))
	require.NoError(t, err)

	sealed, err := codec.Encrypt("handling restrictions apply")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(sealed)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xFF
	tampered := base64.StdEncoding.EncodeToString(raw)

	_, err = codec.Decrypt(tampered)
	require.Error(t, err)
}

func TestWrongKeyFails(t *testing.T) {
	codec, err := New(testKey(0x41))
	require.NoError(t, err)
	other, err := New(testKey(0x42))
	require.NoError(t, err)

	sealed, err := codec.Encrypt("NOFORN")
	require.NoError(t, err)

	_, err = other.Decrypt(sealed)
	require.Error(t, err)
}

func TestKeyValidation(t *testing.T) {
	_, err := New([]byte("short"))
	require.ErrorIs(t, err, ErrKeySize)

	_, err = NewFromBase64("not base64!!")
	require.Error(t, err)

	_, err = NewFromBase64(base64.StdEncoding.EncodeToString(testKey(0x01)))
	require.NoError(t, err)
}

func TestDecryptRejectsShortCiphertext(t *testing.T) {
	codec, err := New(testKey(0x41))
	require.NoError(t, err)

	_, err = codec.Decrypt(base64.StdEncoding.EncodeToString([]byte("tiny")))
	require.ErrorIs(t, err, ErrCiphertextTooShort)
}

func TestPtrHelpersPassNilThrough(t *testing.T) {
	codec, err := New(testKey(0x41))
	require.NoError(t, err)

	sealed, err := codec.EncryptPtr(nil)
	require.NoError(t, err)
	require.Nil(t, sealed)

	opened, err := codec.DecryptPtr(nil)
	require.NoError(t, err)
	require.Nil(t, opened)

	value := "Court Order 17-cv-220"
	sealed, err = codec.EncryptPtr(&value)
	require.NoError(t, err)
	require.NotNil(t, sealed)

	opened, err = codec.DecryptPtr(sealed)
	require.NoError(t, err)
	require.Equal(t, value, *opened)
}
