package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/strongbox/internal/ui"
	"github.com/PolarWolf314/strongbox/internal/workflows"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show vault status without unlocking it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting status command")

		spinner, cleanup := startSpinner("Reading vault status...", verbose)
		defer cleanup()

		result, err := workflows.Status(context.Background(), workflows.StatusOptions{})
		if err != nil {
			return finishWithError(spinner, err, "read vault status")
		}

		if !result.Initialized {
			spinner.FinalMSG = ui.Info.Sprint("ℹ") + " No vault at " + ui.Path.Sprint(result.VaultPath) + "\n" +
				ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("strongbox vault init") + " to create one"
			return nil
		}

		finalMessage := "Vault:      " + ui.Path.Sprint(result.VaultPath) + "\n" +
			fmt.Sprintf("Records:    %d\n", result.Records) +
			fmt.Sprintf("KDF:        %s, %d iterations\n", result.KDF, result.Iterations) +
			fmt.Sprintf("Created:    %s\n", result.CreatedAt.Local().Format("2006-01-02 15:04:05")) +
			fmt.Sprintf("Password:   last changed %s", result.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
		if result.Upgradable {
			finalMessage += "\n" + ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("strongbox vault passwd") +
				" to apply the iteration count from config.toml"
		}
		spinner.FinalMSG = finalMessage
		return nil
	},
}
