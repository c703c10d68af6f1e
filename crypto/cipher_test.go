package crypto

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	t.Parallel()

	plaintexts := []string{
		"hunter2",
		"",
		"пароль с юникодом 🔐",
		"a very long note that spans quite a few words and should still round-trip exactly",
	}

	for _, pt := range plaintexts {
		ct, err := Encrypt(pt, "master-password")
		require.NoError(t, err)

		got, err := Decrypt(ct, "master-password")
		require.NoError(t, err)
		assert.Equal(t, pt, got)
	}
}

func TestEncrypt_EmptyKey(t *testing.T) {
	t.Parallel()

	_, err := Encrypt("secret", "")
	assert.ErrorIs(t, err, ErrEmptyKey)

	_, err = Decrypt("whatever", "")
	assert.ErrorIs(t, err, ErrEmptyKey)
}

func TestEncrypt_FreshSaltPerCall(t *testing.T) {
	t.Parallel()

	ct1, err := Encrypt("same plaintext", "key")
	require.NoError(t, err)
	ct2, err := Encrypt("same plaintext", "key")
	require.NoError(t, err)

	assert.NotEqual(t, ct1, ct2)
}

func TestDecrypt_WrongKey(t *testing.T) {
	t.Parallel()

	ct, err := Encrypt("secret", "right-key")
	require.NoError(t, err)

	_, err = Decrypt(ct, "wrong-key")
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestDecrypt_TamperedCiphertext(t *testing.T) {
	t.Parallel()

	ct, err := Encrypt("secret", "key")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(ct)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff

	_, err = Decrypt(base64.StdEncoding.EncodeToString(raw), "key")
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestDecrypt_Malformed(t *testing.T) {
	t.Parallel()

	cases := []string{
		"not base64 at all!!!",
		base64.StdEncoding.EncodeToString([]byte("too short")),
		"",
	}
	for _, ct := range cases {
		_, err := Decrypt(ct, "key")
		assert.ErrorIs(t, err, ErrDecryptionFailed)
	}
}
