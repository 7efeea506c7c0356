package cmd

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/PolarWolf314/strongbox/internal/ui"
	"github.com/PolarWolf314/strongbox/internal/workflows"
	"github.com/spf13/cobra"
)

var wipeYes bool

func init() {
	wipeCmd.Flags().BoolVarP(&wipeYes, "yes", "y", false, "skip the confirmation prompt")
}

func resetWipeCommandState() {
	wipeYes = false
}

var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete the vault and every password in it",
	Long: `Deletes the master key material and every record after checking the
master password. This cannot be undone; export a backup first.

Without --yes you are asked to type 'wipe' to confirm. --password-stdin
requires --yes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting wipe command")

		if !wipeYes {
			if passwordStdin {
				fmt.Println(ui.Error.Sprint("✗") + " Refusing to wipe without confirmation\n" +
					ui.Info.Sprint("→") + " Pass " + ui.Flag.Sprint("--yes") + " together with " + ui.Flag.Sprint("--password-stdin"))
				return nil
			}
			fmt.Print("This deletes every password in the vault. Type 'wipe' to confirm: ")
			response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if strings.TrimSpace(response) != "wipe" {
				fmt.Println(ui.Warning.Sprint("⚠") + " Wipe cancelled")
				return nil
			}
		}

		source, err := newPasswordSource(cmd)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read passwords: %v", err)
		}
		master, err := source.next("Master password: ")
		if err != nil {
			return printVaultError(err, "read master password")
		}

		spinner, cleanup := startSpinner("Wiping vault...", verbose)
		defer cleanup()

		result, err := workflows.Wipe(context.Background(), workflows.WipeOptions{MasterPassword: master})
		if err != nil {
			return finishWithError(spinner, err, "wipe vault")
		}

		spinner.FinalMSG = ui.Success.Sprint("✓") + fmt.Sprintf(" Vault wiped, %d record(s) deleted", result.Removed)
		return nil
	},
}
