package passwords

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	kerrors "github.com/PolarWolf314/strongbox/internal/errors"
	"github.com/PolarWolf314/strongbox/internal/secrets"
	"github.com/PolarWolf314/strongbox/internal/storage"
	"github.com/PolarWolf314/strongbox/internal/vault"
)

// Keyring seals and opens record secrets. *vault.KeyManager implements it.
type Keyring interface {
	State() vault.State
	Seal(payload secrets.SecretPayload) (secrets.EncryptedField, error)
	Open(field secrets.EncryptedField) (secrets.SecretPayload, error)
}

// RecordStore persists records. *storage.DB implements it.
type RecordStore interface {
	InsertRecord(ctx context.Context, r *storage.Record) (uint64, error)
	GetRecord(ctx context.Context, id uint64) (*storage.Record, error)
	UpdateRecord(ctx context.Context, r *storage.Record) error
	DeleteRecord(ctx context.Context, id uint64) error
	ListRecords(ctx context.Context) ([]storage.Record, error)
	CountRecords(ctx context.Context) (int, error)
	MergeRecords(ctx context.Context, records []storage.Record) (inserted, skipped int, err error)
	ReplaceRecords(ctx context.Context, records []storage.Record) (int, error)
}

// Entry is a decrypted password record.
type Entry struct {
	ID        uint64
	Title     string
	Username  string
	Password  string
	Website   string
	Notes     string
	Category  Category
	CreatedAt time.Time
	UpdatedAt time.Time

	// Err is set, and Password and Notes are empty, when this record could
	// not be opened. Other records in the same listing are unaffected.
	Err error
}

// CreateInput describes a new record. Title is required.
type CreateInput struct {
	Title    string
	Username string
	Password string
	Website  string
	Notes    string
	Category string
}

// UpdateInput changes the fields that are non-nil and keeps the rest.
type UpdateInput struct {
	ID       uint64
	Title    *string
	Username *string
	Password *string
	Website  *string
	Notes    *string
	Category *string
}

// Service reads and writes password records through an unlocked Keyring.
type Service struct {
	keys  Keyring
	store RecordStore
	now   func() time.Time
}

// NewService returns a Service using keys for sealing and store for persistence.
func NewService(keys Keyring, store RecordStore) *Service {
	return &Service{keys: keys, store: store, now: time.Now}
}

func (s *Service) requireUnlocked() error {
	if s.keys.State() != vault.StateUnlocked {
		return kerrors.ErrVaultLocked
	}
	return nil
}

func requireTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", kerrors.ErrInvalidInput)
	}
	return nil
}

// Create seals input and stores it as a new record.
//
// Returns ErrInvalidInput if the title is blank or the password or notes are
// not valid UTF-8, and ErrVaultLocked if the vault is not unlocked.
func (s *Service) Create(ctx context.Context, input CreateInput) (uint64, error) {
	if err := requireTitle(input.Title); err != nil {
		return 0, err
	}

	field, err := s.keys.Seal(secrets.SecretPayload{Password: input.Password, Notes: input.Notes})
	if err != nil {
		return 0, err
	}

	now := s.now().UTC()
	r := &storage.Record{
		Title:     input.Title,
		Username:  input.Username,
		Website:   input.Website,
		Category:  string(ParseCategory(input.Category)),
		Secret:    field,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.store.InsertRecord(ctx, r)
}

// Get returns the decrypted record with id.
//
// Returns ErrRecordNotFound if it does not exist and ErrCorruptRecord if its
// secret cannot be opened.
func (s *Service) Get(ctx context.Context, id uint64) (*Entry, error) {
	if err := s.requireUnlocked(); err != nil {
		return nil, err
	}

	r, err := s.store.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	entry := s.open(*r)
	if entry.Err != nil {
		return nil, fmt.Errorf("record %d: %w", id, entry.Err)
	}
	return &entry, nil
}

// Update merges input over the existing record and re-seals its secret with
// a fresh nonce. The update time is refreshed.
//
// A record whose secret is corrupted can still be updated when both Password
// and Notes are supplied; otherwise ErrCorruptRecord is returned.
func (s *Service) Update(ctx context.Context, input UpdateInput) error {
	if err := s.requireUnlocked(); err != nil {
		return err
	}

	r, err := s.store.GetRecord(ctx, input.ID)
	if err != nil {
		return err
	}

	var payload secrets.SecretPayload
	if input.Password == nil || input.Notes == nil {
		payload, err = s.keys.Open(r.Secret)
		if err != nil {
			return fmt.Errorf("record %d: %w", input.ID, err)
		}
	}

	if input.Title != nil {
		if err := requireTitle(*input.Title); err != nil {
			return err
		}
		r.Title = *input.Title
	}
	if input.Username != nil {
		r.Username = *input.Username
	}
	if input.Website != nil {
		r.Website = *input.Website
	}
	if input.Category != nil {
		r.Category = string(ParseCategory(*input.Category))
	}
	if input.Password != nil {
		payload.Password = *input.Password
	}
	if input.Notes != nil {
		payload.Notes = *input.Notes
	}

	r.Secret, err = s.keys.Seal(payload)
	if err != nil {
		return err
	}
	r.UpdatedAt = s.now().UTC()
	return s.store.UpdateRecord(ctx, r)
}

// Delete removes the record with id.
func (s *Service) Delete(ctx context.Context, id uint64) error {
	if err := s.requireUnlocked(); err != nil {
		return err
	}
	return s.store.DeleteRecord(ctx, id)
}

// List returns every record, most recently updated first.
//
// Records that cannot be opened are returned with Err set so the rest of the
// vault stays usable. A locked vault fails with ErrVaultLocked.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	return s.Search(ctx, "")
}

// Search returns records whose title, username, website or category contains
// query, ignoring case. An empty query matches everything.
func (s *Service) Search(ctx context.Context, query string) ([]Entry, error) {
	if err := s.requireUnlocked(); err != nil {
		return nil, err
	}

	records, err := s.store.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}

	query = strings.ToLower(query)
	entries := make([]Entry, 0, len(records))
	for _, r := range records {
		if !r.Damaged && !matches(r, query) {
			continue
		}
		entry := s.open(r)
		if errors.Is(entry.Err, kerrors.ErrVaultLocked) {
			return nil, entry.Err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Count returns the number of stored records.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.store.CountRecords(ctx)
}

func matches(r storage.Record, query string) bool {
	if query == "" {
		return true
	}
	for _, field := range []string{r.Title, r.Username, r.Website, r.Category} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func (s *Service) open(r storage.Record) Entry {
	entry := Entry{
		ID:        r.ID,
		Title:     r.Title,
		Username:  r.Username,
		Website:   r.Website,
		Category:  ParseCategory(r.Category),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.Damaged {
		entry.Err = fmt.Errorf("%w: stored record does not decode", kerrors.ErrCorruptRecord)
		return entry
	}

	payload, err := s.keys.Open(r.Secret)
	if err != nil {
		entry.Err = err
		return entry
	}
	entry.Password = payload.Password
	entry.Notes = payload.Notes
	return entry
}
