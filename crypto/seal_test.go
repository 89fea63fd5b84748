package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpenRoundTrip(t *testing.T) {
	recipient, err := GenerateKeyPair()
	require.NoError(t, err)

	sealed, err := SealToPublicKey(recipient.Public, []byte("welcome secret"))
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "welcome secret")

	plaintext, err := OpenSealed(recipient, sealed)
	require.NoError(t, err)
	assert.Equal(t, "welcome secret", string(plaintext))
}

func TestOpenSealedWrongRecipient(t *testing.T) {
	recipient, err := GenerateKeyPair()
	require.NoError(t, err)
	other, err := GenerateKeyPair()
	require.NoError(t, err)

	sealed, err := SealToPublicKey(recipient.Public, []byte("not for you"))
	require.NoError(t, err)

	_, err = OpenSealed(other, sealed)
	assert.Error(t, err, "a different key pair must not unseal")
}

func TestSealToZeroKey(t *testing.T) {
	_, err := SealToPublicKey([32]byte{}, []byte("payload"))
	assert.Error(t, err)
}

func TestOpenSealedInvalidInputs(t *testing.T) {
	recipient, err := GenerateKeyPair()
	require.NoError(t, err)

	_, err = OpenSealed(nil, []byte("x"))
	assert.Error(t, err)

	_, err = OpenSealed(recipient, nil)
	assert.Error(t, err)

	_, err = OpenSealed(recipient, []byte("garbage that is not a noise message"))
	assert.Error(t, err)
}
