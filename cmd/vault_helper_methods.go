package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	kerrors "github.com/PolarWolf314/strongbox/internal/errors"
	"github.com/PolarWolf314/strongbox/internal/ui"
	"github.com/PolarWolf314/strongbox/internal/utils"
	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
//
// spinner.FinalMSG values do not need trailing newlines; cleanup adds one.
// Read every password before calling this, the spinner shares the terminal with the prompt.
func startSpinner(message string, verbose bool) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	quiet := !verbose && !debug
	if quiet {
		s.Start()
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		if quiet {
			log.SetOutput(os.Stdout)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			s.FinalMSG = ""
		}

		if quiet {
			s.Stop()
		}

		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// passwordSource hands out passwords either from --password-stdin lines or
// from hidden terminal prompts.
type passwordSource struct {
	fromStdin bool
	lines     [][]byte
}

func newPasswordSource(cmd *cobra.Command) (*passwordSource, error) {
	if !passwordStdin {
		return &passwordSource{}, nil
	}
	lines, err := utils.ReadLines(cmd.InOrStdin())
	if err != nil {
		return nil, err
	}
	Logger.Debugf("Read %d password line(s) from stdin", len(lines))
	return &passwordSource{fromStdin: true, lines: lines}, nil
}

func (p *passwordSource) next(prompt string) ([]byte, error) {
	if !p.fromStdin {
		return utils.ReadPassphrase(prompt)
	}
	if len(p.lines) == 0 {
		return nil, fmt.Errorf("%w: stdin ran out of password lines", kerrors.ErrInvalidInput)
	}
	line := p.lines[0]
	p.lines = p.lines[1:]
	return line, nil
}

// nextNew asks twice on a terminal. Stdin input is taken as already confirmed.
func (p *passwordSource) nextNew(prompt, confirmPrompt string) ([]byte, error) {
	if p.fromStdin {
		return p.next(prompt)
	}
	return utils.ReadNewPassphrase(prompt, confirmPrompt)
}

func parseRecordID(arg string) (uint64, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %q is not a record id", kerrors.ErrInvalidInput, arg)
	}
	return id, nil
}

// formatVaultError turns an expected failure into a user-facing message.
// It returns false for errors that should abort with a non-zero exit.
func formatVaultError(err error) (string, bool) {
	fail := ui.Error.Sprint("✗")
	hint := ui.Info.Sprint("→")

	switch {
	case errors.Is(err, kerrors.ErrVaultNotInitialized):
		return fail + " The vault has not been initialized\n" +
			hint + " Run " + ui.Code.Sprint("strongbox vault init") + " first", true

	case errors.Is(err, kerrors.ErrAlreadyInitialized):
		return fail + " The vault has already been initialized\n" +
			hint + " Run " + ui.Code.Sprint("strongbox vault passwd") + " to change the master password", true

	case errors.Is(err, kerrors.ErrWrongBackupPassword):
		return fail + " Wrong backup password", true

	case errors.Is(err, kerrors.ErrWrongPassword):
		return fail + " Wrong master password", true

	case errors.Is(err, utils.ErrPassphraseMismatch):
		return fail + " Passwords do not match", true

	case errors.Is(err, kerrors.ErrRecordNotFound):
		return fail + " No such record\n" +
			hint + " Run " + ui.Code.Sprint("strongbox vault list") + " to see record ids", true

	case errors.Is(err, kerrors.ErrCorruptRecord):
		return fail + " " + ui.Corrupt.Sprint("This record is corrupted") + "\n" +
			hint + " Replace both its password and notes with " + ui.Code.Sprint("strongbox vault edit") +
			", or remove it with " + ui.Code.Sprint("strongbox vault rm"), true

	case errors.Is(err, kerrors.ErrVaultCorrupted):
		return fail + " The vault key material is corrupted\n" +
			hint + " Restore from a backup with " + ui.Code.Sprint("strongbox vault import"), true

	case errors.Is(err, kerrors.ErrMalformedFile):
		return fail + " Not a valid strongbox backup: " + err.Error(), true

	case errors.Is(err, kerrors.ErrUnsupportedVersion):
		return fail + " " + err.Error() + "\n" +
			hint + " This backup was written by a newer version of strongbox", true

	case errors.Is(err, kerrors.ErrFileNotFound),
		errors.Is(err, kerrors.ErrInvalidInput),
		errors.Is(err, kerrors.ErrInvalidConfig),
		errors.Is(err, kerrors.ErrConflictingFlags):
		return fail + " " + err.Error(), true

	default:
		return "", false
	}
}

// finishWithError reports err through the spinner. Expected failures are
// printed and swallowed, anything else is returned.
func finishWithError(s *spinner.Spinner, err error, action string) error {
	if msg, ok := formatVaultError(err); ok {
		Logger.Debugf("%s: %v", action, err)
		s.FinalMSG = msg
		return nil
	}
	return Logger.ErrorfAndReturn("failed to %s: %v", action, err)
}

// printVaultError is finishWithError for failures that happen before a spinner exists.
func printVaultError(err error, action string) error {
	if msg, ok := formatVaultError(err); ok {
		fmt.Println(msg)
		return nil
	}
	return Logger.ErrorfAndReturn("failed to %s: %v", action, err)
}
