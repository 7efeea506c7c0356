package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/strongbox/internal/audit"
	"github.com/PolarWolf314/strongbox/internal/configs"
)

// InitOptions configures the init workflow.
type InitOptions struct {
	// MasterPassword protects the new vault.
	MasterPassword []byte
}

// InitResult contains the outcome of an init operation.
type InitResult struct {
	// VaultPath is the database that was created.
	VaultPath string

	// Iterations is the PBKDF2 count the master password is stretched with.
	Iterations int
}

// Init creates a new vault protected by opts.MasterPassword.
//
// Returns ErrAlreadyInitialized if the vault already exists.
// Returns ErrInvalidInput if the password is empty.
func Init(ctx context.Context, opts InitOptions) (*InitResult, error) {
	if _, err := configs.EnsureConfig(); err != nil {
		return nil, fmt.Errorf("preparing config: %w", err)
	}

	s, err := openSession(ctx)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	if err := s.keys.CreateVault(ctx, opts.MasterPassword); err != nil {
		return nil, err
	}

	s.audit(audit.OpInit, nil)

	return &InitResult{
		VaultPath:  s.vaultPath,
		Iterations: s.config.Vault.KDFIterations,
	}, nil
}
