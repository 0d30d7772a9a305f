package crypto

import (
	"crypto/sha256"
	"crypto/sha512"

	"github.com/decred/dcrd/crypto/ripemd160"
)

// AccountIDSize is the size of an account ID in bytes.
const AccountIDSize = 20

// CalcAccountID computes the account ID from a compressed public key:
// RIPEMD160(SHA256(publicKey)).
func CalcAccountID(publicKey []byte) [AccountIDSize]byte {
	sha256Hash := sha256.Sum256(publicKey)

	ripemd160Hasher := ripemd160.New()
	ripemd160Hasher.Write(sha256Hash[:])
	ripemd160Hash := ripemd160Hasher.Sum(nil)

	var result [AccountIDSize]byte
	copy(result[:], ripemd160Hash)
	return result
}

// Sha512Half returns the first 32 bytes of SHA-512 over the concatenated inputs.
func Sha512Half(data ...[]byte) [32]byte {
	h := sha512.New()
	for _, d := range data {
		h.Write(d)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil)[:32])
	return out
}
