// Package configs manages strongbox user configuration.
//
// Configuration is a single TOML file, <config dir>/strongbox/config.toml:
//
//	[install]
//	uuid = "…"            # generated on first use, recorded in audit entries
//
//	[vault]
//	path = "~/vault.db"   # default: <data dir>/strongbox/vault.db
//	kdf_iterations = 200000
//
//	[backup]
//	directory = "."
//	kdf_iterations = 200000
//
//	[audit]
//	enabled = true
//
// Iteration counts below the PBKDF2 floor are rejected on load.
//
// UserStrongboxSettings holds the directories the file and the data live in.
// It is resolved once at start-up from the environment; tests point it at
// temporary directories.
package configs
