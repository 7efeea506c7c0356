package workflows

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/PolarWolf314/strongbox/internal/configs"
	kerrors "github.com/PolarWolf314/strongbox/internal/errors"
	"github.com/PolarWolf314/strongbox/internal/passwords"
	"github.com/PolarWolf314/strongbox/internal/secrets"
	"github.com/PolarWolf314/strongbox/internal/storage"
	"github.com/PolarWolf314/strongbox/internal/vault"
)

// CheckStatus represents the result status of a health check.
type CheckStatus int

const (
	// CheckPass means the check passed.
	CheckPass CheckStatus = iota
	// CheckWarning means the check found a non-critical issue.
	CheckWarning
	// CheckError means the check found a critical issue.
	CheckError
)

// String returns a string representation of CheckStatus.
func (s CheckStatus) String() string {
	switch s {
	case CheckPass:
		return "pass"
	case CheckWarning:
		return "warning"
	case CheckError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for CheckStatus.
func (s CheckStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// CheckResult holds the result of a single health check.
type CheckResult struct {
	Name       string      `json:"name"`
	Status     CheckStatus `json:"status"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// DoctorResult holds the complete result of the doctor workflow.
type DoctorResult struct {
	Checks      []CheckResult `json:"checks"`
	Summary     DoctorSummary `json:"summary"`
	Suggestions []string      `json:"suggestions,omitempty"`
}

// DoctorSummary holds counts of checks by status.
type DoctorSummary struct {
	Passed   int `json:"passed"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}

// DoctorOptions configures the doctor workflow.
type DoctorOptions struct {
	// MasterPassword enables the unlock and record checks. When empty
	// those checks are reported as skipped warnings.
	MasterPassword []byte
}

// doctor carries what earlier checks learned to later ones.
type doctor struct {
	config    *configs.Config
	vaultPath string
	db        *storage.DB
	material  *storage.MasterKeyMaterial
	keys      *vault.KeyManager
	password  []byte
}

// Doctor runs health checks on the vault.
//
// The doctor workflow checks:
//   - config.toml validity
//   - Vault file existence and permissions
//   - Key material consistency and iteration count
//   - The master password unwraps the data key
//   - Every record can be decrypted
func Doctor(ctx context.Context, opts DoctorOptions) (*DoctorResult, error) {
	d := &doctor{password: opts.MasterPassword}
	defer d.close()

	checks := []func(context.Context) CheckResult{
		d.checkConfig,
		d.checkVaultFile,
		d.checkKeyMaterial,
		d.checkUnlock,
		d.checkRecords,
	}

	var results []CheckResult
	for _, check := range checks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results = append(results, check(ctx))
	}

	summary := calculateDoctorSummary(results)

	var suggestions []string
	seen := make(map[string]bool)
	for _, result := range results {
		if result.Suggestion != "" && result.Status != CheckPass && !seen[result.Suggestion] {
			suggestions = append(suggestions, result.Suggestion)
			seen[result.Suggestion] = true
		}
	}

	return &DoctorResult{
		Checks:      results,
		Summary:     summary,
		Suggestions: suggestions,
	}, nil
}

func (d *doctor) close() {
	if d.keys != nil && d.keys.State() == vault.StateUnlocked {
		_ = d.keys.Lock()
	}
	if d.db != nil {
		d.db.Close()
	}
}

func (d *doctor) checkConfig(ctx context.Context) CheckResult {
	config, err := configs.LoadConfig()
	if err != nil {
		d.config = configs.DefaultConfig()
		return CheckResult{
			Name:       "Configuration",
			Status:     CheckError,
			Message:    err.Error(),
			Suggestion: fmt.Sprintf("Fix or remove %s", configs.UserStrongboxSettings.ConfigFile()),
		}
	}
	d.config = config
	return CheckResult{
		Name:    "Configuration",
		Status:  CheckPass,
		Message: "config.toml is valid",
	}
}

func (d *doctor) checkVaultFile(ctx context.Context) CheckResult {
	vaultPath, err := d.config.VaultPath()
	if err != nil {
		return CheckResult{
			Name:    "Vault file",
			Status:  CheckError,
			Message: fmt.Sprintf("Cannot resolve vault path: %v", err),
		}
	}
	d.vaultPath = vaultPath

	info, err := os.Stat(vaultPath)
	if errors.Is(err, os.ErrNotExist) {
		return CheckResult{
			Name:       "Vault file",
			Status:     CheckError,
			Message:    fmt.Sprintf("Vault not found at %s", vaultPath),
			Suggestion: "Run 'strongbox vault init' to create a vault",
		}
	}
	if err != nil {
		return CheckResult{
			Name:    "Vault file",
			Status:  CheckError,
			Message: fmt.Sprintf("Failed to stat vault: %v", err),
		}
	}

	db, err := storage.Open(vaultPath)
	if err != nil {
		return CheckResult{
			Name:       "Vault file",
			Status:     CheckError,
			Message:    fmt.Sprintf("Failed to open vault: %v", err),
			Suggestion: "Close other strongbox sessions and try again",
		}
	}
	d.db = db

	if mode := info.Mode().Perm(); mode != 0600 {
		return CheckResult{
			Name:       "Vault file",
			Status:     CheckWarning,
			Message:    fmt.Sprintf("Vault has insecure permissions (%04o)", mode),
			Suggestion: fmt.Sprintf("Run 'chmod 600 %s' to fix permissions", vaultPath),
		}
	}

	return CheckResult{
		Name:    "Vault file",
		Status:  CheckPass,
		Message: "Vault has correct permissions (0600)",
	}
}

func (d *doctor) checkKeyMaterial(ctx context.Context) CheckResult {
	if d.db == nil {
		return CheckResult{
			Name:    "Key material",
			Status:  CheckError,
			Message: "Vault file unavailable (skipping key material check)",
		}
	}

	material, err := d.db.LoadMasterKey(ctx)
	if errors.Is(err, kerrors.ErrVaultNotInitialized) {
		return CheckResult{
			Name:       "Key material",
			Status:     CheckError,
			Message:    "Vault has no master key",
			Suggestion: "Run 'strongbox vault init' to create a vault",
		}
	}
	if err != nil {
		return CheckResult{
			Name:       "Key material",
			Status:     CheckError,
			Message:    err.Error(),
			Suggestion: "Restore the vault from a backup",
		}
	}

	switch {
	case material.KDF != secrets.KDFName,
		material.Iterations < secrets.MinIterations,
		len(material.Salt) != secrets.SaltSize,
		len(material.WrapNonce) != secrets.NonceSize:
		return CheckResult{
			Name:       "Key material",
			Status:     CheckError,
			Message:    "Key material is inconsistent",
			Suggestion: "Restore the vault from a backup",
		}
	}
	d.material = material

	if material.Iterations < d.config.Vault.KDFIterations {
		return CheckResult{
			Name:       "Key material",
			Status:     CheckWarning,
			Message:    fmt.Sprintf("Master password uses %d iterations, config asks for %d", material.Iterations, d.config.Vault.KDFIterations),
			Suggestion: "Run 'strongbox vault passwd' to apply the configured iteration count",
		}
	}

	return CheckResult{
		Name:    "Key material",
		Status:  CheckPass,
		Message: fmt.Sprintf("%s with %d iterations", material.KDF, material.Iterations),
	}
}

func (d *doctor) checkUnlock(ctx context.Context) CheckResult {
	if d.material == nil {
		return CheckResult{
			Name:    "Unlock",
			Status:  CheckError,
			Message: "Key material unavailable (skipping unlock check)",
		}
	}
	if len(d.password) == 0 {
		return CheckResult{
			Name:       "Unlock",
			Status:     CheckWarning,
			Message:    "Skipped: no master password given",
			Suggestion: "Run 'strongbox vault doctor --unlock' to check every record",
		}
	}

	keys, err := vault.NewKeyManager(ctx, d.db, vault.Options{Iterations: d.config.Vault.KDFIterations})
	if err == nil {
		err = keys.Unlock(ctx, d.password)
	}
	if err != nil {
		return CheckResult{
			Name:    "Unlock",
			Status:  CheckError,
			Message: fmt.Sprintf("Cannot unlock vault: %v", err),
		}
	}
	d.keys = keys

	return CheckResult{
		Name:    "Unlock",
		Status:  CheckPass,
		Message: "Master password unwraps the data key",
	}
}

func (d *doctor) checkRecords(ctx context.Context) CheckResult {
	if d.keys == nil {
		return CheckResult{
			Name:    "Records",
			Status:  CheckWarning,
			Message: "Vault not unlocked (skipping record check)",
		}
	}

	entries, err := passwords.NewService(d.keys, d.db).List(ctx)
	if err != nil {
		return CheckResult{
			Name:    "Records",
			Status:  CheckError,
			Message: fmt.Sprintf("Failed to list records: %v", err),
		}
	}

	corrupt := 0
	for _, e := range entries {
		if e.Err != nil {
			corrupt++
		}
	}
	if corrupt > 0 {
		return CheckResult{
			Name:       "Records",
			Status:     CheckError,
			Message:    fmt.Sprintf("%d of %d records cannot be decrypted", corrupt, len(entries)),
			Suggestion: "Remove the damaged records with 'strongbox vault rm' or restore them from a backup",
		}
	}

	return CheckResult{
		Name:    "Records",
		Status:  CheckPass,
		Message: fmt.Sprintf("All %d records decrypt", len(entries)),
	}
}

// calculateDoctorSummary calculates the counts of checks by status.
func calculateDoctorSummary(results []CheckResult) DoctorSummary {
	var summary DoctorSummary
	for _, result := range results {
		switch result.Status {
		case CheckPass:
			summary.Passed++
		case CheckWarning:
			summary.Warnings++
		case CheckError:
			summary.Errors++
		}
	}
	return summary
}
