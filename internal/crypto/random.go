package crypto

import (
	"crypto/rand"
	"errors"
	"io"
)

// ErrRandomGeneration is returned when random number generation fails.
var ErrRandomGeneration = errors.New("failed to generate random bytes")

// RandomBytes generates n cryptographically secure random bytes.
func RandomBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}

	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, ErrRandomGeneration
	}
	return b, nil
}
