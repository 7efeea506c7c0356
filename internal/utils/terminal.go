package utils

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/term"
)

// ErrPassphraseMismatch is returned by ReadNewPassphrase when the confirmation differs.
var ErrPassphraseMismatch = errors.New("passphrases do not match")

// ReadPassphrase prompts for a passphrase without echoing input. It reads
// from stdin when that is a terminal and from /dev/tty (or CON on Windows)
// otherwise, so piped stdin can carry other data.
func ReadPassphrase(prompt string) ([]byte, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return readPassword(int(os.Stdin.Fd()), prompt)
	}

	ttyPath := "/dev/tty"
	if runtime.GOOS == "windows" {
		ttyPath = "CON"
	}
	tty, err := os.Open(ttyPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read passphrase: stdin is not a terminal and %s is unavailable", ttyPath)
	}
	defer tty.Close()

	if !term.IsTerminal(int(tty.Fd())) {
		return nil, fmt.Errorf("cannot read passphrase: %s is not a terminal", ttyPath)
	}
	return readPassword(int(tty.Fd()), prompt)
}

// ReadNewPassphrase prompts twice and returns the passphrase only if both entries match.
func ReadNewPassphrase(prompt, confirmPrompt string) ([]byte, error) {
	first, err := ReadPassphrase(prompt)
	if err != nil {
		return nil, err
	}
	second, err := ReadPassphrase(confirmPrompt)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(first, second) {
		return nil, ErrPassphraseMismatch
	}
	return first, nil
}

// IsTerminal returns true if stdin is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func readPassword(fd int, prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	passphrase, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr) // Add newline after hidden input

	if err != nil {
		return nil, fmt.Errorf("failed to read passphrase: %w", err)
	}
	return passphrase, nil
}
