// Package errors provides typed error values for strongbox.
//
// Sentinel errors let callers branch on specific conditions with errors.Is()
// instead of matching strings.
//
// # Error Categories
//
//   - Input errors: bad arguments (ErrInvalidInput)
//   - Vault state errors: wrong lifecycle state (ErrVaultLocked, ErrAlreadyInitialized)
//   - Crypto errors: failed authentication (ErrWrongPassword, ErrWrongBackupPassword, ErrCorruptRecord)
//   - Backup errors: unreadable backups (ErrMalformedFile, ErrUnsupportedVersion)
//
// ErrAuthenticationFailed is only returned by the cipher primitives. Each
// caller knows what a failed tag means in its context and translates it:
// unwrapping the vault key means a wrong master password, opening a record
// means the record is corrupted, and opening a backup means a wrong backup
// password.
//
// # Usage
//
// Handle errors in the CLI layer:
//
//	_, err := workflows.Import(ctx, opts)
//	switch {
//	case errors.Is(err, kerrors.ErrWrongPassword):
//	    // Ask again
//	case errors.Is(err, kerrors.ErrMalformedFile):
//	    // Not a backup file
//	}
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("%w: salt must be %d bytes", kerrors.ErrInvalidInput, SaltSize)
package errors
