package secrets

import (
	"crypto/sha256"
	"fmt"

	kerrors "github.com/PolarWolf314/strongbox/internal/errors"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// KDFName identifies PBKDF2-HMAC-SHA256 in persisted key material and backup files.
	KDFName = "pbkdf2-sha256"

	// SaltSize is the length of every KDF salt.
	SaltSize = 16

	// KeySize is the length of derived keys and of the data encryption key.
	KeySize = 32

	// MinIterations is the lowest PBKDF2 iteration count ever accepted,
	// whether requested by a caller or declared by a stored record.
	MinIterations = 100_000

	// DefaultIterations is used for new vaults and backups.
	DefaultIterations = 200_000
)

// DeriveKey stretches password into a KeySize key with PBKDF2-HMAC-SHA256.
//
// The same inputs always produce the same key. Returns ErrInvalidInput if the
// password is empty, the salt is not SaltSize bytes, or iterations is below
// MinIterations. The caller owns the returned key and should Zero it.
func DeriveKey(password, salt []byte, iterations int) ([]byte, error) {
	if len(password) == 0 {
		return nil, fmt.Errorf("%w: password must not be empty", kerrors.ErrInvalidInput)
	}
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("%w: salt must be %d bytes, got %d", kerrors.ErrInvalidInput, SaltSize, len(salt))
	}
	if iterations < MinIterations {
		return nil, fmt.Errorf("%w: %d iterations is below the minimum of %d", kerrors.ErrInvalidInput, iterations, MinIterations)
	}

	return pbkdf2.Key(password, salt, iterations, KeySize, sha256.New), nil
}
