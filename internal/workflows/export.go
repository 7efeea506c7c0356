package workflows

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/PolarWolf314/strongbox/internal/audit"
	"github.com/PolarWolf314/strongbox/internal/backup"
	"github.com/PolarWolf314/strongbox/internal/utils"
)

// ExportOptions configures the export workflow.
type ExportOptions struct {
	MasterPassword []byte

	// BackupPassword protects the backup file. It is independent of the master password.
	BackupPassword []byte

	// OutputPath is the path for the backup file.
	// If empty, defaults to strongbox-backup-YYYY-MM-DD.json in the configured backup directory.
	OutputPath string
}

// ExportResult contains the outcome of an export operation.
type ExportResult struct {
	// Count is the number of records written to the backup.
	Count int

	// Skipped is the number of corrupted records left out.
	Skipped int

	// OutputPath is the path to the created backup.
	OutputPath string
}

// Export writes every readable record to an encrypted backup file.
//
// Records are decrypted with the vault key and re-encrypted under a key
// derived from opts.BackupPassword, so the backup can be restored into a
// vault with a different master password.
//
// Returns ErrWrongPassword if the master password is wrong.
// Returns ErrInvalidInput if the backup password is empty.
func Export(ctx context.Context, opts ExportOptions) (*ExportResult, error) {
	s, err := openUnlocked(ctx, opts.MasterPassword)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	outputPath := opts.OutputPath
	if outputPath == "" {
		dir, err := utils.ExpandHome(s.config.Backup.Directory)
		if err != nil {
			return nil, fmt.Errorf("resolving backup directory: %w", err)
		}
		outputPath = filepath.Join(dir, fmt.Sprintf("strongbox-backup-%s.json", time.Now().Format("2006-01-02")))
	}

	entries, skipped, err := s.passwords.ExportEntries(ctx)
	if err != nil {
		return nil, err
	}

	data, err := backup.Encode(entries, opts.BackupPassword, backup.EncodeOptions{
		Iterations: s.config.Backup.KDFIterations,
	})
	if err != nil {
		return nil, err
	}

	if err := utils.WriteFileAtomic(outputPath, data, 0600); err != nil {
		return nil, fmt.Errorf("writing backup: %w", err)
	}

	s.audit(audit.OpExport, func(e *audit.Entry) {
		e.Count = len(entries)
		e.Skipped = skipped
		e.OutputPath = outputPath
	})

	return &ExportResult{
		Count:      len(entries),
		Skipped:    skipped,
		OutputPath: outputPath,
	}, nil
}
