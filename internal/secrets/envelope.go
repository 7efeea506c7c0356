package secrets

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	kerrors "github.com/PolarWolf314/strongbox/internal/errors"
)

// SecretPayload is the part of a password record that is stored encrypted.
type SecretPayload struct {
	Password string
	Notes    string
}

// EncryptedField is a sealed SecretPayload as persisted next to the record.
type EncryptedField struct {
	Ciphertext []byte `json:"ciphertext"`
	Nonce      []byte `json:"nonce"`
}

// wirePayload fixes the encoded field order to password, notes.
type wirePayload struct {
	Password *string `json:"password"`
	Notes    *string `json:"notes"`
}

// Seal encrypts payload under the data encryption key with a fresh nonce.
//
// Both fields must be valid UTF-8. JSON cannot carry arbitrary bytes, so
// anything else is rejected with ErrInvalidInput rather than stored altered.
func Seal(dek []byte, payload SecretPayload) (EncryptedField, error) {
	if err := ValidatePayload(payload); err != nil {
		return EncryptedField{}, err
	}

	plaintext, err := json.Marshal(wirePayload{Password: &payload.Password, Notes: &payload.Notes})
	if err != nil {
		return EncryptedField{}, fmt.Errorf("encoding secret payload: %w", err)
	}
	defer Zero(plaintext)

	nonce, err := GenerateNonce()
	if err != nil {
		return EncryptedField{}, err
	}

	ciphertext, err := Encrypt(dek, nonce, plaintext)
	if err != nil {
		return EncryptedField{}, err
	}

	return EncryptedField{Ciphertext: ciphertext, Nonce: nonce}, nil
}

// ValidatePayload reports ErrInvalidInput if a field is not valid UTF-8.
func ValidatePayload(payload SecretPayload) error {
	if !utf8.ValidString(payload.Password) {
		return fmt.Errorf("%w: password is not valid UTF-8", kerrors.ErrInvalidInput)
	}
	if !utf8.ValidString(payload.Notes) {
		return fmt.Errorf("%w: notes are not valid UTF-8", kerrors.ErrInvalidInput)
	}
	return nil
}

// Open decrypts a field sealed by Seal.
//
// A field that fails authentication, carries a nonce of the wrong size, or
// decrypts to something other than a password/notes object is reported as
// ErrCorruptRecord. A key of the wrong size is still ErrInvalidInput.
func Open(dek []byte, field EncryptedField) (SecretPayload, error) {
	if len(field.Nonce) != NonceSize {
		return SecretPayload{}, fmt.Errorf("%w: nonce is %d bytes", kerrors.ErrCorruptRecord, len(field.Nonce))
	}

	plaintext, err := Decrypt(dek, field.Nonce, field.Ciphertext)
	if errors.Is(err, kerrors.ErrAuthenticationFailed) {
		return SecretPayload{}, fmt.Errorf("%w: %v", kerrors.ErrCorruptRecord, err)
	}
	if err != nil {
		return SecretPayload{}, err
	}
	defer Zero(plaintext)

	var wire wirePayload
	if err := json.Unmarshal(plaintext, &wire); err != nil {
		return SecretPayload{}, fmt.Errorf("%w: secret payload is not valid JSON", kerrors.ErrCorruptRecord)
	}
	if wire.Password == nil || wire.Notes == nil {
		return SecretPayload{}, fmt.Errorf("%w: secret payload is missing fields", kerrors.ErrCorruptRecord)
	}

	return SecretPayload{Password: *wire.Password, Notes: *wire.Notes}, nil
}
