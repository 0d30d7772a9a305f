package crypto

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// SecretKeySize is the size of a secp256k1 secret key in bytes.
const SecretKeySize = 32

var (
	ErrInvalidPrivateKey = errors.New("invalid private key format")
	ErrInvalidPublicKey  = errors.New("invalid public key format")
	ErrInvalidSignature  = errors.New("invalid signature format")
)

// KeyPair is a secp256k1 signing identity.
type KeyPair struct {
	priv *btcec.PrivateKey
}

// GenerateKeyPair creates a key pair from fresh randomness.
func GenerateKeyPair() (*KeyPair, error) {
	for {
		b, err := RandomBytes(SecretKeySize)
		if err != nil {
			return nil, err
		}
		kp, err := KeyPairFromSecret(b)
		if err == nil {
			return kp, nil
		}
	}
}

// KeyPairFromSeed derives a deterministic key pair from arbitrary seed bytes.
// Used for named test accounts and the dev wallet.
func KeyPairFromSeed(seed []byte) *KeyPair {
	for i := byte(0); ; i++ {
		h := Sha512Half(seed, []byte{i})
		if kp, err := KeyPairFromSecret(h[:]); err == nil {
			return kp
		}
	}
}

// KeyPairFromSecret wraps a 32 byte scalar.
func KeyPairFromSecret(secret []byte) (*KeyPair, error) {
	if len(secret) != SecretKeySize {
		return nil, ErrInvalidPrivateKey
	}
	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(secret); overflow || scalar.IsZero() {
		return nil, ErrInvalidPrivateKey
	}
	priv, _ := btcec.PrivKeyFromBytes(secret)
	return &KeyPair{priv: priv}, nil
}

// KeyPairFromHex parses a hex encoded secret key.
func KeyPairFromHex(s string) (*KeyPair, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, fmt.Errorf("decode secret: %w", err)
	}
	return KeyPairFromSecret(b)
}

// PublicKey returns the compressed public key.
func (k *KeyPair) PublicKey() []byte {
	return k.priv.PubKey().SerializeCompressed()
}

// SecretHex returns the secret key as upper-case hex.
func (k *KeyPair) SecretHex() string {
	return strings.ToUpper(hex.EncodeToString(k.priv.Serialize()))
}

// AccountID returns the account derived from the public key.
func (k *KeyPair) AccountID() [AccountIDSize]byte {
	return CalcAccountID(k.PublicKey())
}

// Sign returns a DER encoded ECDSA signature over Sha512Half(message).
func (k *KeyPair) Sign(message []byte) []byte {
	digest := Sha512Half(message)
	return ecdsa.Sign(k.priv, digest[:]).Serialize()
}

// ParsePublicKey validates a compressed or uncompressed secp256k1 public key.
func ParsePublicKey(b []byte) (*secp256k1.PublicKey, error) {
	pub, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	return pub, nil
}

// Verify checks a DER signature produced by Sign.
func Verify(publicKey, message, signature []byte) error {
	pub, err := ParsePublicKey(publicKey)
	if err != nil {
		return err
	}
	sig, err := ecdsa.ParseDERSignature(signature)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	digest := Sha512Half(message)
	if !sig.Verify(digest[:], pub) {
		return ErrInvalidSignature
	}
	return nil
}
