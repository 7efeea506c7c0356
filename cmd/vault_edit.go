package cmd

import (
	"context"
	"fmt"

	kerrors "github.com/PolarWolf314/strongbox/internal/errors"
	"github.com/PolarWolf314/strongbox/internal/generator"
	"github.com/PolarWolf314/strongbox/internal/passwords"
	"github.com/PolarWolf314/strongbox/internal/ui"
	"github.com/PolarWolf314/strongbox/internal/workflows"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	editTitle       string
	editUsername    string
	editWebsite     string
	editNotes       string
	editCategory    string
	editNewPassword bool
	editGenerate    bool
)

func init() {
	editCmd.Flags().StringVar(&editTitle, "title", "", "new title")
	editCmd.Flags().StringVarP(&editUsername, "username", "u", "", "new username")
	editCmd.Flags().StringVarP(&editWebsite, "website", "w", "", "new website")
	editCmd.Flags().StringVarP(&editNotes, "notes", "n", "", "new notes")
	editCmd.Flags().StringVarP(&editCategory, "category", "c", "", "new category")
	editCmd.Flags().BoolVarP(&editNewPassword, "password", "p", false, "prompt for a new password")
	editCmd.Flags().BoolVarP(&editGenerate, "generate", "g", false, "replace the password with a generated one")
}

func resetEditCommandState() {
	editTitle = ""
	editUsername = ""
	editWebsite = ""
	editNotes = ""
	editCategory = ""
	editNewPassword = false
	editGenerate = false
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change fields of a stored password",
	Long: `Changes the given fields of a record and keeps the rest.

A corrupted record can only be edited when both its password (--password
or --generate) and its notes (--notes) are replaced.

Examples:
  strongbox vault edit 3 --username new@example.com
  strongbox vault edit 3 --generate`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting edit command")

		if editNewPassword && editGenerate {
			return printVaultError(fmt.Errorf("%w: --password and --generate cannot be used together", kerrors.ErrConflictingFlags), "edit password")
		}
		id, err := parseRecordID(args[0])
		if err != nil {
			return printVaultError(err, "edit password")
		}

		flags := cmd.Flags()
		input := passwords.UpdateInput{
			ID:       id,
			Title:    changedValue(flags, "title", editTitle),
			Username: changedValue(flags, "username", editUsername),
			Website:  changedValue(flags, "website", editWebsite),
			Notes:    changedValue(flags, "notes", editNotes),
			Category: changedValue(flags, "category", editCategory),
		}

		source, err := newPasswordSource(cmd)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read passwords: %v", err)
		}
		master, err := source.next("Master password: ")
		if err != nil {
			return printVaultError(err, "read master password")
		}

		switch {
		case editGenerate:
			secret, err := generator.Generate(generator.DefaultOptions())
			if err != nil {
				return printVaultError(err, "generate password")
			}
			input.Password = &secret
		case editNewPassword:
			raw, err := source.next("New password: ")
			if err != nil {
				return printVaultError(err, "read password")
			}
			secret := string(raw)
			input.Password = &secret
		}

		spinner, cleanup := startSpinner("Updating password...", verbose)
		defer cleanup()

		result, err := workflows.Edit(context.Background(), workflows.EditOptions{MasterPassword: master, Input: input})
		if err != nil {
			return finishWithError(spinner, err, "edit password")
		}

		finalMessage := ui.Success.Sprint("✓") + " Updated " + ui.Highlight.Sprint(result.Entry.Title) + " " +
			ui.Muted.Sprintf("#%d", result.Entry.ID)
		if editGenerate {
			finalMessage += "\n  Password: " + ui.Secret.Sprint(result.Entry.Password)
		}
		spinner.FinalMSG = finalMessage
		return nil
	},
}

// changedValue returns a pointer to value only if the flag was given, so an
// explicit empty string clears a field while an absent flag keeps it.
func changedValue(flags *pflag.FlagSet, name, value string) *string {
	if !flags.Changed(name) {
		return nil
	}
	return &value
}
