package cmd

import (
	"context"

	"github.com/PolarWolf314/strongbox/internal/ui"
	"github.com/PolarWolf314/strongbox/internal/workflows"
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"remove"},
	Short:   "Delete a stored password",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting rm command")

		id, err := parseRecordID(args[0])
		if err != nil {
			return printVaultError(err, "remove password")
		}

		source, err := newPasswordSource(cmd)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read passwords: %v", err)
		}
		master, err := source.next("Master password: ")
		if err != nil {
			return printVaultError(err, "read master password")
		}

		spinner, cleanup := startSpinner("Removing password...", verbose)
		defer cleanup()

		if err := workflows.Remove(context.Background(), workflows.RemoveOptions{MasterPassword: master, ID: id}); err != nil {
			return finishWithError(spinner, err, "remove password")
		}

		spinner.FinalMSG = ui.Success.Sprint("✓") + " Removed record " + ui.Muted.Sprintf("#%d", id)
		return nil
	},
}
