package workflows

import (
	"context"

	"github.com/PolarWolf314/strongbox/internal/audit"
)

// ChangePasswordOptions configures the change-password workflow.
type ChangePasswordOptions struct {
	OldPassword []byte
	NewPassword []byte
}

// ChangePasswordResult contains the outcome of a change-password operation.
type ChangePasswordResult struct {
	VaultPath string

	// Records is the number of records that remain readable under the new password.
	// None of them were re-encrypted.
	Records int
}

// ChangePassword re-wraps the vault key under opts.NewPassword.
//
// Returns ErrWrongPassword if opts.OldPassword is wrong.
// Returns ErrVaultNotInitialized if no vault exists.
func ChangePassword(ctx context.Context, opts ChangePasswordOptions) (*ChangePasswordResult, error) {
	s, err := openSession(ctx)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	if err := s.keys.ChangeMasterPassword(ctx, opts.OldPassword, opts.NewPassword); err != nil {
		return nil, err
	}

	count, err := s.passwords.Count(ctx)
	if err != nil {
		return nil, err
	}

	s.audit(audit.OpChangePassword, nil)

	return &ChangePasswordResult{VaultPath: s.vaultPath, Records: count}, nil
}
