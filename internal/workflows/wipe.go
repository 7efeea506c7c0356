package workflows

import (
	"context"

	"github.com/PolarWolf314/strongbox/internal/audit"
)

// WipeOptions configures the wipe workflow.
type WipeOptions struct {
	MasterPassword []byte
}

// WipeResult contains the outcome of a wipe operation.
type WipeResult struct {
	// Removed is the number of records deleted.
	Removed int
}

// Wipe deletes the vault key material and every record after verifying the
// master password. The vault returns to the uninitialized state.
//
// Returns ErrWrongPassword if the master password is wrong.
func Wipe(ctx context.Context, opts WipeOptions) (*WipeResult, error) {
	s, err := openUnlocked(ctx, opts.MasterPassword)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	removed, err := s.passwords.Count(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.keys.Wipe(ctx); err != nil {
		return nil, err
	}

	s.audit(audit.OpWipe, func(e *audit.Entry) { e.Count = removed })

	return &WipeResult{Removed: removed}, nil
}
