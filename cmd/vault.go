package cmd

import (
	logger "github.com/PolarWolf314/strongbox/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose       bool
	debug         bool
	passwordStdin bool
	Logger        logger.Logger

	VaultCmd = &cobra.Command{
		Use:   "vault",
		Short: "Manage the encrypted password vault",
		Long: `Creates, unlocks and maintains a local password vault.

Every record's password and notes are encrypted with a random data key.
The data key is wrapped with a key derived from your master password, so
changing the master password never re-encrypts your records.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing vault command with verbose=%t, debug=%t", verbose, debug)
		},
	}
)

func init() {
	VaultCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	VaultCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	VaultCmd.PersistentFlags().BoolVar(&passwordStdin, "password-stdin", false, "read passwords from stdin, one per line, instead of prompting")

	VaultCmd.AddCommand(initCmd)
	VaultCmd.AddCommand(passwdCmd)
	VaultCmd.AddCommand(addCmd)
	VaultCmd.AddCommand(editCmd)
	VaultCmd.AddCommand(removeCmd)
	VaultCmd.AddCommand(listCmd)
	VaultCmd.AddCommand(showCmd)
	VaultCmd.AddCommand(generateCmd)
	VaultCmd.AddCommand(exportCmd)
	VaultCmd.AddCommand(importCmd)
	VaultCmd.AddCommand(statusCmd)
	VaultCmd.AddCommand(doctorCmd)
	VaultCmd.AddCommand(wipeCmd)
	VaultCmd.AddCommand(logCmd)
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	passwordStdin = false
	resetAddCommandState()
	resetEditCommandState()
	resetShowCommandState()
	resetGenerateCommandState()
	resetExportCommandState()
	resetImportCommandState()
	resetDoctorCommandState()
	resetWipeCommandState()
	resetLogCommandState()
}
