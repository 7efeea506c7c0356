package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	kerrors "github.com/PolarWolf314/strongbox/internal/errors"
	"github.com/PolarWolf314/strongbox/internal/passwords"
	"github.com/PolarWolf314/strongbox/internal/ui"
	"github.com/PolarWolf314/strongbox/internal/utils"
	"github.com/PolarWolf314/strongbox/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	importMergeFlag   bool
	importReplaceFlag bool
	importDryRunFlag  bool
)

func init() {
	importCmd.Flags().BoolVar(&importMergeFlag, "merge", false, "add entries that are not already in the vault")
	importCmd.Flags().BoolVar(&importReplaceFlag, "replace", false, "delete every record and use the backup")
	importCmd.Flags().BoolVar(&importDryRunFlag, "dry-run", false, "show what would happen without changing the vault")
}

func resetImportCommandState() {
	importMergeFlag = false
	importReplaceFlag = false
	importDryRunFlag = false
}

var importCmd = &cobra.Command{
	Use:   "import <backup-file>",
	Short: "Restore passwords from an encrypted backup",
	Long: `Restores records from a backup written by 'strongbox vault export'.

The backup is decrypted and checked completely before the vault changes.

Import modes:
  --merge    Keep existing records and add backup entries that are not
             duplicates. An entry is a duplicate when its title, username,
             website and category all match.
  --replace  Delete every existing record and use the backup.

If the vault already holds records and neither flag is given, you will be
asked which mode to use. Without a terminal, or with --password-stdin,
merge is assumed.

With --password-stdin, the first line is the master password and the
second line the backup password.

Examples:
  strongbox vault import strongbox-backup-2024-01-15.json
  strongbox vault import backup.json --replace
  strongbox vault import backup.json --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting import command")
		inputPath := args[0]

		if importMergeFlag && importReplaceFlag {
			return printVaultError(fmt.Errorf("%w: --merge and --replace cannot be used together", kerrors.ErrConflictingFlags), "import passwords")
		}

		mode := passwords.ImportModeMerge
		if importReplaceFlag {
			mode = passwords.ImportModeOverwrite
		}

		if !importMergeFlag && !importReplaceFlag && !importDryRunFlag && !passwordStdin && utils.IsTerminal() {
			status, err := workflows.Status(context.Background(), workflows.StatusOptions{})
			if err != nil {
				return printVaultError(err, "read vault status")
			}
			if status.Records > 0 {
				var ok bool
				mode, ok = promptForImportMode(cmd.InOrStdin(), status.Records)
				if !ok {
					fmt.Println(ui.Warning.Sprint("⚠") + " Import cancelled")
					return nil
				}
			}
		}
		Logger.Debugf("Import mode: %s, dry-run: %v", mode, importDryRunFlag)

		source, err := newPasswordSource(cmd)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read passwords: %v", err)
		}
		master, err := source.next("Master password: ")
		if err != nil {
			return printVaultError(err, "read master password")
		}
		backupPassword, err := source.next("Backup password: ")
		if err != nil {
			return printVaultError(err, "read backup password")
		}

		spinner, cleanup := startSpinner("Importing passwords...", verbose)
		defer cleanup()

		result, err := workflows.Import(context.Background(), workflows.ImportOptions{
			MasterPassword: master,
			BackupPassword: backupPassword,
			InputPath:      inputPath,
			Mode:           mode,
			DryRun:         importDryRunFlag,
		})
		if err != nil {
			return finishWithError(spinner, err, "import passwords")
		}

		spinner.FinalMSG = formatImportResult(result, inputPath)
		return nil
	},
}

func formatImportResult(result *workflows.ImportResult, inputPath string) string {
	var finalMessage string
	if result.DryRun {
		finalMessage = ui.Info.Sprint("Dry run") + " - no changes made\n\n"
	} else {
		finalMessage = ui.Success.Sprint("✓") + " Imported passwords from " + ui.Path.Sprint(inputPath) + "\n\n"
	}

	finalMessage += fmt.Sprintf("Mode: %s\n", result.Mode)
	if result.ExportedAt != "" {
		finalMessage += fmt.Sprintf("Backup created: %s\n", result.ExportedAt)
	}
	finalMessage += fmt.Sprintf("Entries in backup: %d\n", result.Total)

	if result.Mode == passwords.ImportModeOverwrite {
		finalMessage += fmt.Sprintf("Records after replace: %d", result.Imported)
	} else {
		finalMessage += fmt.Sprintf("Added: %d\nSkipped (duplicates): %d", result.Imported, result.Skipped)
	}
	return finalMessage
}

// promptForImportMode asks how to combine the backup with existing records.
func promptForImportMode(in io.Reader, existing int) (passwords.ImportMode, bool) {
	reader := bufio.NewReader(in)
	fmt.Printf("The vault already holds %d record(s). How do you want to proceed?\n", existing)
	fmt.Println("  [m] Merge - Add new entries, keep existing")
	fmt.Println("  [r] Replace - Delete existing, use backup")
	fmt.Println("  [c] Cancel")
	fmt.Print("Choice: ")

	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		return 0, false
	}
	response = strings.TrimSpace(strings.ToLower(response))

	switch response {
	case "m", "merge":
		return passwords.ImportModeMerge, true
	case "r", "replace":
		return passwords.ImportModeOverwrite, true
	default:
		return 0, false
	}
}
