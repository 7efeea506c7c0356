package main

import (
	"fmt"

	"github.com/PolarWolf314/strongbox/cmd"
	"github.com/awnumar/memguard"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "strongbox",
	Short: "Strongbox - A local, encrypted password manager.",
	Long: `Strongbox keeps your passwords in an encrypted vault on this machine.

Features:
  - AES-256-GCM encryption of every password and note
  - A master password that can be changed without re-encrypting records
  - Encrypted backups protected by their own password
  - Password generation and strength ratings

Usage:
  strongbox <command> [flags]

Available Commands:
  vault    Manage the encrypted password vault

Run 'strongbox help <command>' for more details on a specific command.
`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Welcome to Strongbox! Run 'strongbox --help' to see available commands.")
	},
}

func init() {
	rootCmd.AddCommand(cmd.VaultCmd)
}

func main() {
	// Wipe locked buffers holding the data key on Ctrl-C and on every exit path.
	memguard.CatchInterrupt()
	defer memguard.Purge()

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		memguard.SafeExit(1)
	}
}
