package cmd

import (
	"context"

	"github.com/PolarWolf314/strongbox/internal/ui"
	"github.com/PolarWolf314/strongbox/internal/workflows"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new vault",
	Long: `Creates a new vault protected by a master password.

A random data key is generated and wrapped with a key derived from the
master password. The master password cannot be recovered; if you forget
it, the vault can only be wiped.

Examples:
  strongbox vault init
  printf '%s\n' "$MASTER" | strongbox vault init --password-stdin`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting init command")

		source, err := newPasswordSource(cmd)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read passwords: %v", err)
		}
		master, err := source.nextNew("New master password: ", "Confirm master password: ")
		if err != nil {
			return printVaultError(err, "read master password")
		}

		spinner, cleanup := startSpinner("Creating vault...", verbose)
		defer cleanup()

		result, err := workflows.Init(context.Background(), workflows.InitOptions{MasterPassword: master})
		if err != nil {
			return finishWithError(spinner, err, "create vault")
		}
		Logger.Infof("Vault created with %d iterations", result.Iterations)

		spinner.FinalMSG = ui.Success.Sprint("✓") + " Vault created at " + ui.Path.Sprint(result.VaultPath) + "\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("strongbox vault add <title>") + " to store your first password"
		return nil
	},
}
