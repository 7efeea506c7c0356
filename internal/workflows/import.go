package workflows

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/PolarWolf314/strongbox/internal/audit"
	"github.com/PolarWolf314/strongbox/internal/backup"
	kerrors "github.com/PolarWolf314/strongbox/internal/errors"
	"github.com/PolarWolf314/strongbox/internal/passwords"
)

// ImportOptions configures the import workflow.
type ImportOptions struct {
	MasterPassword []byte
	BackupPassword []byte

	// InputPath is the backup file to read.
	InputPath string

	// Mode selects merge or overwrite.
	Mode passwords.ImportMode

	// DryRun reports what would happen without changing the vault.
	DryRun bool
}

// ImportResult contains the outcome of an import operation.
type ImportResult struct {
	// Imported is the number of records added in merge mode, or the number
	// of records in the vault after an overwrite.
	Imported int

	// Skipped is the number of duplicates left out in merge mode.
	Skipped int

	// Total is the number of entries in the backup.
	Total int

	// ExportedAt is the time recorded in the backup.
	ExportedAt string

	Mode   passwords.ImportMode
	DryRun bool
}

// Import restores entries from an encrypted backup file.
//
// The backup is fully decrypted and validated before the vault is touched,
// and the records are written in a single transaction.
//
// Returns ErrFileNotFound if the input file doesn't exist.
// Returns ErrMalformedFile or ErrUnsupportedVersion if it is not a readable backup.
// Returns ErrWrongPassword if either password is wrong; for the backup
// password the error also matches ErrWrongBackupPassword.
func Import(ctx context.Context, opts ImportOptions) (*ImportResult, error) {
	data, err := os.ReadFile(opts.InputPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, opts.InputPath)
	}
	if err != nil {
		return nil, fmt.Errorf("reading backup: %w", err)
	}

	payload, err := backup.Decode(data, opts.BackupPassword)
	if errors.Is(err, kerrors.ErrWrongPassword) {
		return nil, fmt.Errorf("%w: %w", kerrors.ErrWrongBackupPassword, err)
	}
	if err != nil {
		return nil, err
	}

	s, err := openUnlocked(ctx, opts.MasterPassword)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	var summary *passwords.ImportResult
	if opts.DryRun {
		summary, err = s.passwords.PreviewImport(ctx, payload.Passwords, opts.Mode)
	} else {
		summary, err = s.passwords.Import(ctx, payload.Passwords, opts.Mode)
	}
	if err != nil {
		return nil, err
	}

	result := &ImportResult{
		Imported:   summary.Imported,
		Skipped:    summary.Skipped,
		Total:      len(payload.Passwords),
		ExportedAt: payload.ExportedAt,
		Mode:       opts.Mode,
		DryRun:     opts.DryRun,
	}

	if !opts.DryRun {
		s.audit(audit.OpImport, func(e *audit.Entry) {
			e.Mode = opts.Mode.String()
			e.Count = result.Imported
			e.Skipped = result.Skipped
			e.InputPath = opts.InputPath
		})
	}

	return result, nil
}
