package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/PolarWolf314/strongbox/internal/passwords"
	"github.com/PolarWolf314/strongbox/internal/ui"
	"github.com/PolarWolf314/strongbox/internal/utils"
	"github.com/PolarWolf314/strongbox/internal/workflows"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list [query]",
	Aliases: []string{"ls", "search"},
	Short:   "List stored passwords",
	Long: `Lists records, most recently updated first.

With a query, only records whose title, username, website or category
contain it (case-insensitively) are shown. Passwords are never printed;
use 'strongbox vault show <id> --reveal' for that.

Corrupted records are always listed and marked so they can be repaired
or removed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting list command")

		query := ""
		if len(args) == 1 {
			query = args[0]
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

		result, err := workflows.List(context.Background(), workflows.ListOptions{MasterPassword: master, Query: query})
		if err != nil {
			return finishWithError(spinner, err, "list passwords")
		}

		if len(result.Entries) == 0 {
			if query != "" {
				spinner.FinalMSG = ui.Info.Sprint("ℹ") + " No records match " + ui.Highlight.Sprint(query)
			} else {
				spinner.FinalMSG = ui.Info.Sprint("ℹ") + " The vault is empty"
			}
			return nil
		}

		spinner.FinalMSG = formatEntryTable(result.Entries) + "\n" + formatListSummary(result)
		return nil
	},
}

func formatEntryTable(entries []passwords.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-6s  %-24s  %-24s  %-24s  %-13s  %s\n", "ID", "TITLE", "USERNAME", "WEBSITE", "CATEGORY", "UPDATED")
	for _, e := range entries {
		line := fmt.Sprintf("%-6d  %-24s  %-24s  %-24s  %-13s  %s",
			e.ID,
			utils.Truncate(e.Title, 24),
			utils.Truncate(e.Username, 24),
			utils.Truncate(e.Website, 24),
			e.Category,
			e.UpdatedAt.Local().Format("2006-01-02 15:04"),
		)
		if e.Err != nil {
			line += "  " + ui.Corrupt.Sprint("corrupted")
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func formatListSummary(result *workflows.ListResult) string {
	summary := fmt.Sprintf("%d record(s)", len(result.Entries))
	if result.Corrupt > 0 {
		summary += ", " + ui.Corrupt.Sprintf("%d corrupted", result.Corrupt) + "\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("strongbox vault doctor --unlock") + " for details"
	}
	return summary
}
