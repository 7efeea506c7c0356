// Package utils provides shared helpers for strongbox.
//
// # Terminal
//
//   - ReadPassphrase: hidden input from the terminal, falling back to /dev/tty
//   - ReadNewPassphrase: prompt and confirm
//   - ReadLines: passwords piped with --password-stdin
//   - IsTerminal: whether interactive prompts are possible
//
// # Filesystem
//
//   - WriteFileAtomic: write-then-rename, used for backup files
//   - ExpandHome: "~/" expansion for paths from config.toml
//
// # Display
//
//   - Truncate, MaskSecret
//
// # System
//
//   - GetUsername, GetHostname: recorded in audit entries
package utils
