package crypto

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyPairFromSeedIsDeterministic(t *testing.T) {
	a := KeyPairFromSeed([]byte("alice"))
	b := KeyPairFromSeed([]byte("alice"))
	c := KeyPairFromSeed([]byte("bob"))

	assert.Equal(t, a.PublicKey(), b.PublicKey())
	assert.Equal(t, a.AccountID(), b.AccountID())
	assert.NotEqual(t, a.AccountID(), c.AccountID())
	assert.Len(t, a.PublicKey(), 33)
}

func TestSignVerify(t *testing.T) {
	kp, err := GenerateKeyPair()
	require.NoError(t, err)

	msg := []byte(`{"TransactionType":"CollectionOfferCreate"}`)
	sig := kp.Sign(msg)

	require.NoError(t, Verify(kp.PublicKey(), msg, sig))
	assert.ErrorIs(t, Verify(kp.PublicKey(), []byte("tampered"), sig), ErrInvalidSignature)

	other := KeyPairFromSeed([]byte("mallory"))
	assert.ErrorIs(t, Verify(other.PublicKey(), msg, sig), ErrInvalidSignature)
}

func TestKeyPairFromHexRoundTrip(t *testing.T) {
	kp := KeyPairFromSeed([]byte("carol"))
	parsed, err := KeyPairFromHex(kp.SecretHex())
	require.NoError(t, err)
	assert.Equal(t, kp.AccountID(), parsed.AccountID())

	_, err = KeyPairFromHex("abcd")
	assert.ErrorIs(t, err, ErrInvalidPrivateKey)
}

func TestCalcAccountIDKnownVector(t *testing.T) {
	// Compressed public key of the secp256k1 generator point.
	pub := []byte{
		0x02, 0x79, 0xbe, 0x66, 0x7e, 0xf9, 0xdc, 0xbb, 0xac, 0x55, 0xa0, 0x62, 0x95, 0xce, 0x87, 0x0b,
		0x07, 0x02, 0x9b, 0xfc, 0xdb, 0x2d, 0xce, 0x28, 0xd9, 0x59, 0xf2, 0x81, 0x5b, 0x16, 0xf8, 0x17, 0x98,
	}
	id := CalcAccountID(pub)
	// hash160 of the generator's compressed key, the well known "1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH".
	assert.Equal(t, "751e76e8199196d454941c45d1b3a323f1433bd6", hex.EncodeToString(id[:]))
}
