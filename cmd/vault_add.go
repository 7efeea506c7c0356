package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/strongbox/internal/generator"
	"github.com/PolarWolf314/strongbox/internal/passwords"
	"github.com/PolarWolf314/strongbox/internal/ui"
	"github.com/PolarWolf314/strongbox/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	addUsername string
	addWebsite  string
	addNotes    string
	addCategory string
	addGenerate bool
	addLength   int
)

func init() {
	addCmd.Flags().StringVarP(&addUsername, "username", "u", "", "account username")
	addCmd.Flags().StringVarP(&addWebsite, "website", "w", "", "website or service address")
	addCmd.Flags().StringVarP(&addNotes, "notes", "n", "", "notes, stored encrypted")
	addCmd.Flags().StringVarP(&addCategory, "category", "c", string(passwords.CategoryOther), "record category")
	addCmd.Flags().BoolVarP(&addGenerate, "generate", "g", false, "generate a random password instead of prompting")
	addCmd.Flags().IntVarP(&addLength, "length", "l", generator.DefaultLength, "length of the generated password")
}

func resetAddCommandState() {
	addUsername = ""
	addWebsite = ""
	addNotes = ""
	addCategory = string(passwords.CategoryOther)
	addGenerate = false
	addLength = generator.DefaultLength
}

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Store a new password",
	Long: `Stores a new password record.

The password and notes are encrypted; title, username, website and
category are stored in the clear so they can be searched without
decrypting every record.

Categories: social, email, finance, work, shopping, entertainment, other.

Examples:
  strongbox vault add GitHub -u octocat -w github.com -c work
  strongbox vault add "Home wifi" --generate --length 24`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting add command")
		title := args[0]

		source, err := newPasswordSource(cmd)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read passwords: %v", err)
		}
		master, err := source.next("Master password: ")
		if err != nil {
			return printVaultError(err, "read master password")
		}

		var secret string
		if addGenerate {
			opts := generator.DefaultOptions()
			opts.Length = addLength
			secret, err = generator.Generate(opts)
			if err != nil {
				return printVaultError(err, "generate password")
			}
		} else {
			raw, err := source.next(fmt.Sprintf("Password for %s: ", title))
			if err != nil {
				return printVaultError(err, "read password")
			}
			secret = string(raw)
		}

		spinner, cleanup := startSpinner("Adding password...", verbose)
		defer cleanup()

		result, err := workflows.Add(context.Background(), workflows.AddOptions{
			MasterPassword: master,
			Input: passwords.CreateInput{
				Title:    title,
				Username: addUsername,
				Password: secret,
				Website:  addWebsite,
				Notes:    addNotes,
				Category: addCategory,
			},
		})
		if err != nil {
			return finishWithError(spinner, err, "add password")
		}

		rating := generator.StrengthOf(secret)
		if rating == generator.StrengthWeak {
			Logger.WarnfAlways("The password for %s is weak, consider 'strongbox vault edit %d --generate'", title, result.ID)
		}
		strength := rating.String()
		finalMessage := ui.Success.Sprint("✓") + " Added " + ui.Highlight.Sprint(result.Title) + " " +
			ui.Muted.Sprintf("#%d", result.ID) + "\n" +
			"  Strength: " + ui.ForStrength(strength).Sprint(strength)
		if addGenerate {
			finalMessage += "\n  Password: " + ui.Secret.Sprint(secret)
		}
		spinner.FinalMSG = finalMessage
		return nil
	},
}
