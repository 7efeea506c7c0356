// Package workflows provides high-level orchestration for strongbox commands.
//
// Workflows coordinate the vault packages (configs, storage, vault, passwords,
// backup, audit) to implement complete user-facing features. Each workflow
// handles a single command's business logic, independent of CLI concerns
// like flag parsing, prompting, spinners and output formatting.
//
// # Sessions
//
// Every workflow opens the vault database, unlocks it if it needs the data
// key, does its work and locks it again before returning. Nothing stays
// unlocked between commands.
//
// # Available Workflows
//
//   - Init, ChangePassword, Wipe: vault lifecycle
//   - Add, Edit, Remove, List, Show: password records
//   - Export, Import: encrypted backups
//   - Status, Doctor, Log: inspection
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package, allowing
// the CLI layer to provide appropriate user-facing messages without string
// matching:
//
//	result, err := workflows.Import(ctx, opts)
//	if errors.Is(err, kerrors.ErrWrongPassword) {
//	    // Ask for the password again
//	}
//
// All workflow functions accept a context.Context as their first parameter.
package workflows
