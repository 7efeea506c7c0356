package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/strongbox/internal/ui"
	"github.com/PolarWolf314/strongbox/internal/workflows"
	"github.com/spf13/cobra"
)

var exportOutputPath string

func init() {
	exportCmd.Flags().StringVarP(&exportOutputPath, "output", "o", "", "output path for the backup (default: strongbox-backup-YYYY-MM-DD.json)")
}

func resetExportCommandState() {
	exportOutputPath = ""
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export passwords to an encrypted backup",
	Long: `Writes every record to a backup file encrypted with a separate backup
password.

The backup does not depend on the vault's master password or data key, so
it can be restored into any vault. Corrupted records are left out and
reported.

With --password-stdin, the first line is the master password and the
second line the backup password.

Examples:
  strongbox vault export
  strongbox vault export -o /backups/passwords.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting export command")

		source, err := newPasswordSource(cmd)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read passwords: %v", err)
		}
		master, err := source.next("Master password: ")
		if err != nil {
			return printVaultError(err, "read master password")
		}
		backupPassword, err := source.nextNew("Backup password: ", "Confirm backup password: ")
		if err != nil {
			return printVaultError(err, "read backup password")
		}

		spinner, cleanup := startSpinner("Exporting passwords...", verbose)
		defer cleanup()

		result, err := workflows.Export(context.Background(), workflows.ExportOptions{
			MasterPassword: master,
			BackupPassword: backupPassword,
			OutputPath:     exportOutputPath,
		})
		if err != nil {
			return finishWithError(spinner, err, "export passwords")
		}
		Logger.Infof("Backup written to %s", result.OutputPath)

		finalMessage := ui.Success.Sprint("✓") + " Exported " + fmt.Sprintf("%d record(s)", result.Count) +
			" to " + ui.Path.Sprint(result.OutputPath)
		if result.Skipped > 0 {
			finalMessage += "\n" + ui.Warning.Sprint("⚠") + fmt.Sprintf(" %d corrupted record(s) were left out", result.Skipped)
		}
		finalMessage += "\n\n" + ui.Info.Sprint("Note:") + " Keep the backup password safe. It cannot be recovered."
		spinner.FinalMSG = finalMessage
		return nil
	},
}
