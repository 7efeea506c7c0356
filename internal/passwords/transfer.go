package passwords

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/strongbox/internal/backup"
	"github.com/PolarWolf314/strongbox/internal/secrets"
	"github.com/PolarWolf314/strongbox/internal/storage"
)

// ImportMode selects how imported entries are combined with existing records.
type ImportMode int

const (
	// ImportModeMerge keeps existing records and adds entries that are not duplicates.
	ImportModeMerge ImportMode = iota
	// ImportModeOverwrite replaces every existing record with the imported entries.
	ImportModeOverwrite
)

// String returns a string representation of ImportMode.
func (m ImportMode) String() string {
	if m == ImportModeOverwrite {
		return "overwrite"
	}
	return "merge"
}

// ImportResult reports what an import did.
type ImportResult struct {
	// Imported is the number of entries inserted in merge mode, or the total
	// record count after an overwrite.
	Imported int
	// Skipped counts duplicates left out by a merge. Always zero for overwrite.
	Skipped int
}

// ExportEntries returns every record as a plaintext backup entry. Records
// that cannot be opened are left out and counted in skipped.
func (s *Service) ExportEntries(ctx context.Context) (entries []backup.Entry, skipped int, err error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, 0, err
	}

	entries = make([]backup.Entry, 0, len(all))
	for _, e := range all {
		if e.Err != nil {
			skipped++
			continue
		}
		entries = append(entries, backup.Entry{
			Title:    e.Title,
			Username: e.Username,
			Password: e.Password,
			Website:  e.Website,
			Notes:    e.Notes,
			Category: string(e.Category),
		})
	}
	return entries, skipped, nil
}

// Import seals entries under the current data key and stores them according to mode.
//
// Merge skips an entry when title, username, website and category all match
// an existing record or an entry imported earlier in the same call.
// Overwrite deletes every record first. Either way the change is made in a
// single transaction.
func (s *Service) Import(ctx context.Context, entries []backup.Entry, mode ImportMode) (*ImportResult, error) {
	if err := s.requireUnlocked(); err != nil {
		return nil, err
	}

	if err := validateEntries(entries); err != nil {
		return nil, err
	}

	records, err := s.sealEntries(entries)
	if err != nil {
		return nil, err
	}

	switch mode {
	case ImportModeMerge:
		inserted, skipped, err := s.store.MergeRecords(ctx, records)
		if err != nil {
			return nil, fmt.Errorf("merging records: %w", err)
		}
		return &ImportResult{Imported: inserted, Skipped: skipped}, nil
	case ImportModeOverwrite:
		total, err := s.store.ReplaceRecords(ctx, records)
		if err != nil {
			return nil, fmt.Errorf("replacing records: %w", err)
		}
		return &ImportResult{Imported: total}, nil
	default:
		return nil, fmt.Errorf("unknown import mode %d", mode)
	}
}

// validateEntries applies the checks Create enforces to every entry.
func validateEntries(entries []backup.Entry) error {
	for i, e := range entries {
		if err := requireTitle(e.Title); err != nil {
			return fmt.Errorf("backup entry %d: %w", i+1, err)
		}
		if err := secrets.ValidatePayload(secrets.SecretPayload{Password: e.Password, Notes: e.Notes}); err != nil {
			return fmt.Errorf("backup entry %d: %w", i+1, err)
		}
	}
	return nil
}

func (s *Service) sealEntries(entries []backup.Entry) ([]storage.Record, error) {
	now := s.now().UTC()
	records := make([]storage.Record, 0, len(entries))
	for _, e := range entries {
		field, err := s.keys.Seal(secrets.SecretPayload{Password: e.Password, Notes: e.Notes})
		if err != nil {
			return nil, err
		}
		records = append(records, storage.Record{
			Title:     e.Title,
			Username:  e.Username,
			Website:   e.Website,
			Category:  string(ParseCategory(e.Category)),
			Secret:    field,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return records, nil
}

// PreviewImport reports what Import would do without sealing or writing anything.
func (s *Service) PreviewImport(ctx context.Context, entries []backup.Entry, mode ImportMode) (*ImportResult, error) {
	if err := s.requireUnlocked(); err != nil {
		return nil, err
	}
	if err := validateEntries(entries); err != nil {
		return nil, err
	}
	if mode == ImportModeOverwrite {
		return &ImportResult{Imported: len(entries)}, nil
	}

	records, err := s.store.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		if !r.Damaged {
			seen[r.DuplicateKey()] = true
		}
	}

	result := &ImportResult{}
	for _, e := range entries {
		key := storage.Record{
			Title:    e.Title,
			Username: e.Username,
			Website:  e.Website,
			Category: string(ParseCategory(e.Category)),
		}.DuplicateKey()
		if seen[key] {
			result.Skipped++
			continue
		}
		seen[key] = true
		result.Imported++
	}
	return result, nil
}
