package backup

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	kerrors "github.com/PolarWolf314/strongbox/internal/errors"
	"github.com/PolarWolf314/strongbox/internal/secrets"
)

const (
	// Version is the only backup format version this build reads and writes.
	Version = 1

	// MaxIterations bounds the work an untrusted backup file can ask for.
	MaxIterations = 10_000_000
)

// File is the on-disk backup document.
type File struct {
	Version    int    `json:"version"`
	KDF        string `json:"kdf"`
	Iterations int    `json:"iterations"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	Ciphertext string `json:"ciphertext"`
}

// Payload is the decrypted content of a backup.
type Payload struct {
	Version    int     `json:"version"`
	ExportedAt string  `json:"exported_at"`
	Passwords  []Entry `json:"passwords"`
}

// Entry is one plaintext password record inside a backup.
type Entry struct {
	Title    string `json:"title"`
	Username string `json:"username"`
	Password string `json:"password"`
	Website  string `json:"website"`
	Notes    string `json:"notes"`
	Category string `json:"category"`
}

// EncodeOptions configures Encode.
type EncodeOptions struct {
	// Iterations defaults to secrets.DefaultIterations.
	Iterations int

	// Now stamps exported_at and defaults to time.Now.
	Now func() time.Time
}

// Encode encrypts entries under a key derived from password and returns the
// backup file bytes. A fresh salt and nonce are drawn for every call.
//
// Returns ErrInvalidInput if password is empty or the iteration count is
// outside [MinIterations, MaxIterations].
func Encode(entries []Entry, password []byte, opts EncodeOptions) ([]byte, error) {
	if len(password) == 0 {
		return nil, fmt.Errorf("%w: backup password must not be empty", kerrors.ErrInvalidInput)
	}
	if opts.Iterations == 0 {
		opts.Iterations = secrets.DefaultIterations
	}
	if opts.Iterations > MaxIterations {
		return nil, fmt.Errorf("%w: %d iterations is above the maximum of %d", kerrors.ErrInvalidInput, opts.Iterations, MaxIterations)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if entries == nil {
		entries = []Entry{}
	}

	plaintext, err := json.Marshal(Payload{
		Version:    Version,
		ExportedAt: opts.Now().UTC().Format(time.RFC3339),
		Passwords:  entries,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding backup payload: %w", err)
	}
	defer secrets.Zero(plaintext)

	salt, err := secrets.GenerateSalt()
	if err != nil {
		return nil, err
	}
	nonce, err := secrets.GenerateNonce()
	if err != nil {
		return nil, err
	}

	key, err := secrets.DeriveKey(password, salt, opts.Iterations)
	if err != nil {
		return nil, err
	}
	defer secrets.Zero(key)

	ciphertext, err := secrets.Encrypt(key, nonce, plaintext)
	if err != nil {
		return nil, fmt.Errorf("encrypting backup: %w", err)
	}

	return json.MarshalIndent(File{
		Version:    Version,
		KDF:        secrets.KDFName,
		Iterations: opts.Iterations,
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
	}, "", "  ")
}

// Decode verifies and decrypts a backup file.
//
// The version is checked before anything else. Returns
// ErrUnsupportedVersion for any version other than Version, ErrMalformedFile
// if the document or its decrypted payload is not a valid backup (including
// an iteration count below the floor), ErrWrongPassword if password does not
// authenticate the ciphertext, and ErrInvalidInput if password is empty.
func Decode(data, password []byte) (*Payload, error) {
	if len(password) == 0 {
		return nil, fmt.Errorf("%w: backup password must not be empty", kerrors.ErrInvalidInput)
	}

	header, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	salt, nonce, ciphertext, err := header.decodeFields()
	if err != nil {
		return nil, err
	}

	key, err := secrets.DeriveKey(password, salt, header.Iterations)
	if err != nil {
		return nil, err
	}
	defer secrets.Zero(key)

	plaintext, err := secrets.Decrypt(key, nonce, ciphertext)
	if errors.Is(err, kerrors.ErrAuthenticationFailed) {
		return nil, kerrors.ErrWrongPassword
	}
	if err != nil {
		return nil, fmt.Errorf("decrypting backup: %w", err)
	}
	defer secrets.Zero(plaintext)

	var payload Payload
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		return nil, fmt.Errorf("%w: backup payload is not valid JSON", kerrors.ErrMalformedFile)
	}
	if payload.Version != Version {
		return nil, fmt.Errorf("%w: payload version %d", kerrors.ErrUnsupportedVersion, payload.Version)
	}
	if payload.Passwords == nil {
		payload.Passwords = []Entry{}
	}
	return &payload, nil
}

// parseHeader decodes the outer document, checking the version first.
func parseHeader(data []byte) (*File, error) {
	var probe struct {
		Version *int `json:"version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: not a JSON object", kerrors.ErrMalformedFile)
	}
	if probe.Version == nil {
		return nil, fmt.Errorf("%w: missing version", kerrors.ErrMalformedFile)
	}
	if *probe.Version != Version {
		return nil, fmt.Errorf("%w: version %d", kerrors.ErrUnsupportedVersion, *probe.Version)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrMalformedFile, err)
	}
	if f.KDF != secrets.KDFName {
		return nil, fmt.Errorf("%w: unsupported kdf %q", kerrors.ErrMalformedFile, f.KDF)
	}
	if f.Iterations < secrets.MinIterations {
		return nil, fmt.Errorf("%w: %d iterations is below the minimum of %d", kerrors.ErrMalformedFile, f.Iterations, secrets.MinIterations)
	}
	if f.Iterations > MaxIterations {
		return nil, fmt.Errorf("%w: %d iterations is above the maximum of %d", kerrors.ErrMalformedFile, f.Iterations, MaxIterations)
	}
	return &f, nil
}

func (f *File) decodeFields() (salt, nonce, ciphertext []byte, err error) {
	salt, err = decodeField("salt", f.Salt, secrets.SaltSize)
	if err != nil {
		return nil, nil, nil, err
	}
	nonce, err = decodeField("nonce", f.Nonce, secrets.NonceSize)
	if err != nil {
		return nil, nil, nil, err
	}
	ciphertext, err = decodeField("ciphertext", f.Ciphertext, -1)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(ciphertext) < secrets.TagSize {
		return nil, nil, nil, fmt.Errorf("%w: ciphertext is too short", kerrors.ErrMalformedFile)
	}
	return salt, nonce, ciphertext, nil
}

// decodeField base64-decodes s and checks its length unless size is negative.
func decodeField(name, s string, size int) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not valid base64", kerrors.ErrMalformedFile, name)
	}
	if size >= 0 && len(b) != size {
		return nil, fmt.Errorf("%w: %s must be %d bytes, got %d", kerrors.ErrMalformedFile, name, size, len(b))
	}
	return b, nil
}
