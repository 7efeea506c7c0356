package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PolarWolf314/strongbox/internal/configs"
	logger "github.com/PolarWolf314/strongbox/internal/logging"
	"github.com/PolarWolf314/strongbox/internal/secrets"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// setupTestEnvironment points the user settings at a temporary directory and
// writes a config.toml with the minimum iteration count so tests stay fast.
func setupTestEnvironment(t *testing.T) string {
	t.Helper()
	color.NoColor = true
	original := configs.UserStrongboxSettings
	dir := t.TempDir()
	configs.UserStrongboxSettings = &configs.UserSettings{
		ConfigDir: filepath.Join(dir, "config"),
		DataDir:   filepath.Join(dir, "data"),
		Username:  "testuser",
	}
	t.Cleanup(func() {
		configs.UserStrongboxSettings = original
		ResetGlobalState()
	})

	config := configs.DefaultConfig()
	config.Vault.KDFIterations = secrets.MinIterations
	config.Backup.KDFIterations = secrets.MinIterations
	config.Backup.Directory = dir
	if err := configs.SaveConfig(config); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}
	return dir
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	reader, writer, err := os.Pipe()
	if err != nil {
		return "", err
	}
	os.Stdout = writer
	os.Stderr = writer

	outputChan := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, reader)
		outputChan <- buf.String()
	}()

	runErr := fn()

	writer.Close()
	os.Stdout = originalStdout
	os.Stderr = originalStderr

	return <-outputChan, runErr
}

// createTestCLI builds a root command running `vault <args...>`. Every line
// of stdinLines is fed to --password-stdin when the flag is in args.
func createTestCLI(args []string, stdinLines ...string) *cobra.Command {
	ResetGlobalState()
	Logger = logger.Logger{Verbose: true}

	rootCmd := &cobra.Command{Use: "strongbox"}
	rootCmd.AddCommand(VaultCmd)
	rootCmd.SetArgs(append([]string{"vault", "--verbose"}, args...))

	input := ""
	if len(stdinLines) > 0 {
		input = strings.Join(stdinLines, "\n") + "\n"
	}
	rootCmd.SetIn(strings.NewReader(input))
	return rootCmd
}

// runVault executes `vault <args...>` and returns everything it printed.
func runVault(t *testing.T, args []string, stdinLines ...string) string {
	t.Helper()
	output, err := captureOutput(func() error {
		return createTestCLI(args, stdinLines...).Execute()
	})
	if err != nil {
		t.Fatalf("vault %s failed: %v\nOutput: %s", strings.Join(args, " "), err, output)
	}
	return output
}
