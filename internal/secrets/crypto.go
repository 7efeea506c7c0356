package secrets

import (
	"crypto/rand"
	"fmt"

	"github.com/awnumar/memguard"
)

// CreateSymmetricKey generates a new random data encryption key.
func CreateSymmetricKey() ([]byte, error) {
	symKey := make([]byte, KeySize) // AES-256
	if _, err := rand.Read(symKey); err != nil {
		return nil, fmt.Errorf("generating symmetric key: %w", err)
	}

	return symKey, nil
}

// GenerateSalt returns SaltSize bytes from the system CSPRNG.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generating salt: %w", err)
	}
	return salt, nil
}

// GenerateNonce returns a fresh NonceSize-byte nonce. Every encryption must use its own.
func GenerateNonce() ([]byte, error) {
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}
	return nonce, nil
}

// Zero overwrites b in place.
func Zero(b []byte) {
	memguard.WipeBytes(b)
}
