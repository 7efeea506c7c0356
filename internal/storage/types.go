package storage

import (
	"time"

	"github.com/PolarWolf314/strongbox/internal/secrets"
)

// MasterKeyMaterial is the persisted, password-wrapped data encryption key.
type MasterKeyMaterial struct {
	Version    int       `json:"version"`
	KDF        string    `json:"kdf"`
	Iterations int       `json:"iterations"`
	Salt       []byte    `json:"salt"`
	WrappedDEK []byte    `json:"wrapped_dek"`
	WrapNonce  []byte    `json:"wrap_nonce"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Record is a stored password entry. Secret holds the sealed password and notes.
type Record struct {
	ID        uint64                 `json:"id"`
	Title     string                 `json:"title"`
	Username  string                 `json:"username"`
	Website   string                 `json:"website"`
	Category  string                 `json:"category"`
	Secret    secrets.EncryptedField `json:"secret"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`

	// Damaged is set by ListRecords when the stored bytes for this id do not decode.
	Damaged bool `json:"-"`
}

// DuplicateKey is the identity used when merging imported records.
func (r Record) DuplicateKey() string {
	return r.Title + "\x00" + r.Username + "\x00" + r.Website + "\x00" + r.Category
}
