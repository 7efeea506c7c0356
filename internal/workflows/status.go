package workflows

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/PolarWolf314/strongbox/internal/configs"
	kerrors "github.com/PolarWolf314/strongbox/internal/errors"
	"github.com/PolarWolf314/strongbox/internal/storage"
)

// StatusOptions configures the status workflow.
type StatusOptions struct {
	// No options currently needed - included for consistency.
}

// StatusResult describes the vault without unlocking it.
type StatusResult struct {
	VaultPath   string
	Initialized bool

	// The remaining fields are zero when Initialized is false.
	Records    int
	KDF        string
	Iterations int
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Upgradable is set when the configured iteration count is higher than
	// the one the master password is currently stretched with. Changing the
	// master password applies the configured count.
	Upgradable bool
}

// Status reports whether the vault exists and how it is protected.
// It never asks for the master password and never creates the vault file.
func Status(ctx context.Context, opts StatusOptions) (*StatusResult, error) {
	config, err := configs.LoadConfig()
	if err != nil {
		return nil, err
	}
	vaultPath, err := config.VaultPath()
	if err != nil {
		return nil, fmt.Errorf("resolving vault path: %w", err)
	}

	result := &StatusResult{VaultPath: vaultPath}
	if _, err := os.Stat(vaultPath); errors.Is(err, os.ErrNotExist) {
		return result, nil
	}

	db, err := storage.Open(vaultPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	material, err := db.LoadMasterKey(ctx)
	if errors.Is(err, kerrors.ErrVaultNotInitialized) {
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	count, err := db.CountRecords(ctx)
	if err != nil {
		return nil, err
	}

	result.Initialized = true
	result.Records = count
	result.KDF = material.KDF
	result.Iterations = material.Iterations
	result.CreatedAt = material.CreatedAt
	result.UpdatedAt = material.UpdatedAt
	result.Upgradable = config.Vault.KDFIterations > material.Iterations
	return result, nil
}
