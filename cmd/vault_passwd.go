package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/strongbox/internal/ui"
	"github.com/PolarWolf314/strongbox/internal/workflows"
	"github.com/spf13/cobra"
)

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change the master password",
	Long: `Changes the master password.

Only the data key is re-wrapped; records are not re-encrypted. The new
wrapping uses the iteration count currently configured in config.toml.

With --password-stdin, the first line is the current password and the
second line the new one.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting passwd command")

		source, err := newPasswordSource(cmd)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read passwords: %v", err)
		}
		oldPassword, err := source.next("Current master password: ")
		if err != nil {
			return printVaultError(err, "read master password")
		}
		newPassword, err := source.nextNew("New master password: ", "Confirm new master password: ")
		if err != nil {
			return printVaultError(err, "read new master password")
		}

		spinner, cleanup := startSpinner("Changing master password...", verbose)
		defer cleanup()

		result, err := workflows.ChangePassword(context.Background(), workflows.ChangePasswordOptions{
			OldPassword: oldPassword,
			NewPassword: newPassword,
		})
		if err != nil {
			return finishWithError(spinner, err, "change master password")
		}

		spinner.FinalMSG = ui.Success.Sprint("✓") + " Master password changed\n" +
			fmt.Sprintf("  %d record(s) remain readable with the new password", result.Records)
		return nil
	},
}
