package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/strongbox/internal/generator"
	"github.com/PolarWolf314/strongbox/internal/ui"
	"github.com/PolarWolf314/strongbox/internal/utils"
	"github.com/PolarWolf314/strongbox/internal/workflows"
	"github.com/spf13/cobra"
)

var showReveal bool

func init() {
	showCmd.Flags().BoolVarP(&showReveal, "reveal", "r", false, "print the password in clear text")
}

func resetShowCommandState() {
	showReveal = false
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a stored password",
	Long: `Decrypts and prints a single record. The password is masked unless
--reveal is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting show command")

		id, err := parseRecordID(args[0])
		if err != nil {
			return printVaultError(err, "show password")
		}

		source, err := newPasswordSource(cmd)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read passwords: %v", err)
		}
		master, err := source.next("Master password: ")
		if err != nil {
			return printVaultError(err, "read master password")
		}

		spinner, cleanup := startSpinner("Unlocking vault...", verbose)
		defer cleanup()

		entry, err := workflows.Show(context.Background(), workflows.ShowOptions{MasterPassword: master, ID: id})
		if err != nil {
			return finishWithError(spinner, err, "show password")
		}

		password := utils.MaskSecret(entry.Password)
		if showReveal {
			password = ui.Secret.Sprint(entry.Password)
		}
		strength := generator.StrengthOf(entry.Password).String()

		spinner.FinalMSG = ui.Highlight.Sprint(entry.Title) + " " + ui.Muted.Sprintf("#%d", entry.ID) + "\n" +
			fmt.Sprintf("  Username: %s\n", entry.Username) +
			fmt.Sprintf("  Password: %s %s\n", password, ui.ForStrength(strength).Sprint(strength)) +
			fmt.Sprintf("  Website:  %s\n", entry.Website) +
			fmt.Sprintf("  Category: %s\n", entry.Category) +
			fmt.Sprintf("  Notes:    %s\n", entry.Notes) +
			fmt.Sprintf("  Created:  %s\n", entry.CreatedAt.Local().Format("2006-01-02 15:04:05")) +
			fmt.Sprintf("  Updated:  %s", entry.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
		return nil
	},
}
