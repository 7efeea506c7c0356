package workflows

import (
	"context"

	"github.com/PolarWolf314/strongbox/internal/audit"
	"github.com/PolarWolf314/strongbox/internal/passwords"
)

// AddOptions configures the add workflow.
type AddOptions struct {
	MasterPassword []byte
	Input          passwords.CreateInput
}

// AddResult contains the outcome of an add operation.
type AddResult struct {
	ID    uint64
	Title string
}

// Add stores a new password record.
//
// Returns ErrWrongPassword if the master password is wrong.
// Returns ErrInvalidInput if the title is blank.
func Add(ctx context.Context, opts AddOptions) (*AddResult, error) {
	s, err := openUnlocked(ctx, opts.MasterPassword)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	id, err := s.passwords.Create(ctx, opts.Input)
	if err != nil {
		return nil, err
	}

	s.audit(audit.OpAdd, func(e *audit.Entry) {
		e.RecordID = id
		e.Title = opts.Input.Title
	})

	return &AddResult{ID: id, Title: opts.Input.Title}, nil
}

// EditOptions configures the edit workflow.
type EditOptions struct {
	MasterPassword []byte
	Input          passwords.UpdateInput
}

// EditResult contains the outcome of an edit operation.
type EditResult struct {
	Entry *passwords.Entry
}

// Edit changes the non-nil fields of an existing record.
//
// Returns ErrRecordNotFound if the id does not exist.
// Returns ErrCorruptRecord if the record cannot be opened and the edit does
// not replace both its password and notes.
func Edit(ctx context.Context, opts EditOptions) (*EditResult, error) {
	s, err := openUnlocked(ctx, opts.MasterPassword)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	if err := s.passwords.Update(ctx, opts.Input); err != nil {
		return nil, err
	}
	entry, err := s.passwords.Get(ctx, opts.Input.ID)
	if err != nil {
		return nil, err
	}

	s.audit(audit.OpEdit, func(e *audit.Entry) {
		e.RecordID = entry.ID
		e.Title = entry.Title
	})

	return &EditResult{Entry: entry}, nil
}

// RemoveOptions configures the remove workflow.
type RemoveOptions struct {
	MasterPassword []byte
	ID             uint64
}

// Remove deletes a record.
//
// Returns ErrRecordNotFound if the id does not exist.
func Remove(ctx context.Context, opts RemoveOptions) error {
	s, err := openUnlocked(ctx, opts.MasterPassword)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.passwords.Delete(ctx, opts.ID); err != nil {
		return err
	}

	s.audit(audit.OpRemove, func(e *audit.Entry) { e.RecordID = opts.ID })
	return nil
}

// ListOptions configures the list workflow.
type ListOptions struct {
	MasterPassword []byte

	// Query filters by title, username, website or category. Empty lists everything.
	Query string
}

// ListResult contains the outcome of a list operation.
type ListResult struct {
	// Entries are ordered most recently updated first. Corrupted records
	// are included with Err set.
	Entries []passwords.Entry

	// Corrupt counts the entries with Err set.
	Corrupt int
}

// List returns the records matching opts.Query.
func List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	s, err := openUnlocked(ctx, opts.MasterPassword)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	entries, err := s.passwords.Search(ctx, opts.Query)
	if err != nil {
		return nil, err
	}

	result := &ListResult{Entries: entries}
	for _, e := range entries {
		if e.Err != nil {
			result.Corrupt++
		}
	}
	return result, nil
}

// ShowOptions configures the show workflow.
type ShowOptions struct {
	MasterPassword []byte
	ID             uint64
}

// Show returns a single decrypted record.
//
// Returns ErrRecordNotFound if the id does not exist.
// Returns ErrCorruptRecord if its secret cannot be opened.
func Show(ctx context.Context, opts ShowOptions) (*passwords.Entry, error) {
	s, err := openUnlocked(ctx, opts.MasterPassword)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	entry, err := s.passwords.Get(ctx, opts.ID)
	if err != nil {
		return nil, err
	}

	s.audit(audit.OpShow, func(e *audit.Entry) { e.RecordID = opts.ID })
	return entry, nil
}
