package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/PolarWolf314/strongbox/internal/ui"
	"github.com/PolarWolf314/strongbox/internal/workflows"
	"github.com/awnumar/memguard"
	"github.com/spf13/cobra"
)

var (
	doctorJSONOutput bool
	doctorUnlock     bool
	doctorExitFunc   = memguard.SafeExit
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSONOutput, "json", false, "output in JSON format")
	doctorCmd.Flags().BoolVar(&doctorUnlock, "unlock", false, "ask for the master password and check every record")
}

func resetDoctorCommandState() {
	doctorJSONOutput = false
	doctorUnlock = false
	doctorExitFunc = memguard.SafeExit
}

// SetDoctorExitFunc replaces the process exit for testing.
func SetDoctorExitFunc(f func(int)) {
	doctorExitFunc = f
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run health checks on the vault",
	Long: `Runs a series of health checks on the vault and reports issues.

The doctor command checks:
  - config.toml validity
  - Vault file existence and permissions
  - Key material consistency and iteration count
  - With --unlock: the master password and every record

Exit codes:
  0 - All checks passed
  1 - Warnings found (non-critical issues)
  2 - Errors found (critical issues)

Use --json for machine-readable output.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting doctor command")

	var master []byte
	if doctorUnlock {
		source, err := newPasswordSource(cmd)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read passwords: %v", err)
		}
		master, err = source.next("Master password: ")
		if err != nil {
			return printVaultError(err, "read master password")
		}
	}

	spinner, cleanup := startSpinner("Running health checks...", verbose)
	defer cleanup()

	result, err := workflows.Doctor(context.Background(), workflows.DoctorOptions{MasterPassword: master})
	if err != nil {
		spinner.FinalMSG = ui.Error.Sprint("✗") + " Failed to run health checks: " + err.Error()
		return err
	}

	for _, check := range result.Checks {
		Logger.Debugf("Check %s: status=%s, message=%s", check.Name, check.Status, check.Message)
	}

	if doctorJSONOutput {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return Logger.ErrorfAndReturn("failed to marshal results to JSON: %v", err)
		}
		spinner.FinalMSG = string(data)
	} else {
		spinner.FinalMSG = formatDoctorResults(result)
	}

	// Print before exiting, the deferred cleanup would not run.
	cleanup()
	if result.Summary.Errors > 0 {
		doctorExitFunc(2)
	} else if result.Summary.Warnings > 0 {
		doctorExitFunc(1)
	}
	return nil
}

func formatDoctorResults(result *workflows.DoctorResult) string {
	var out string
	for _, check := range result.Checks {
		var statusIcon string
		switch check.Status {
		case workflows.CheckPass:
			statusIcon = ui.Success.Sprint("✓")
		case workflows.CheckWarning:
			statusIcon = ui.Warning.Sprint("⚠")
		case workflows.CheckError:
			statusIcon = ui.Error.Sprint("✗")
		}
		out += fmt.Sprintf("%s %s: %s\n", statusIcon, check.Name, check.Message)
	}

	out += "\n" + fmt.Sprintf("Summary: %d passed", result.Summary.Passed)
	if result.Summary.Warnings > 0 {
		out += ", " + ui.Warning.Sprintf("%d warning(s)", result.Summary.Warnings)
	}
	if result.Summary.Errors > 0 {
		out += ", " + ui.Error.Sprintf("%d error(s)", result.Summary.Errors)
	}

	if len(result.Suggestions) > 0 {
		out += "\n\nSuggestions:"
		for _, suggestion := range result.Suggestions {
			out += "\n  " + ui.Info.Sprint("→") + " " + suggestion
		}
	}
	return out
}
