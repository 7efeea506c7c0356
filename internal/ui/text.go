package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Formatter applies semantic formatting to text.
type Formatter struct {
	color  *color.Color
	prefix string
	suffix string
}

// Sprint formats the arguments and returns the resulting string.
func (f Formatter) Sprint(a ...any) string {
	return f.render(fmt.Sprint(a...))
}

// Sprintf formats according to a format specifier and returns the resulting string.
func (f Formatter) Sprintf(format string, a ...any) string {
	return f.render(fmt.Sprintf(format, a...))
}

func (f Formatter) render(text string) string {
	if noColor() {
		return f.prefix + text + f.suffix
	}
	return f.color.Sprint(text)
}

// EnsureNewline ensures the string ends with a newline character.
func EnsureNewline(s string) string {
	if len(s) == 0 || s[len(s)-1] != '\n' {
		return s + "\n"
	}
	return s
}

// noColor reports whether NO_COLOR is set (https://no-color.org/) or
// fatih/color has detected a terminal without colour support.
func noColor() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return true
	}
	return color.NoColor
}

// Semantic formatters for CLI output.
var (
	// Code formats runnable commands. `backticks` without colour.
	Code = Formatter{color.New(color.FgYellow), "`", "`"}

	// Path formats file paths such as the vault database or a backup file.
	Path = Formatter{color.New(color.FgYellow), "", ""}

	// Flag formats CLI flags like --merge.
	Flag = Formatter{color.New(color.FgYellow), "", ""}

	Success = Formatter{color.New(color.FgGreen), "", ""}
	Error   = Formatter{color.New(color.FgRed), "", ""}
	Warning = Formatter{color.New(color.FgYellow), "", ""}

	// Info formats hints and directional indicators.
	Info = Formatter{color.New(color.FgCyan), "", ""}

	// Highlight formats record titles and other user values. 'quotes' without colour.
	Highlight = Formatter{color.New(color.FgCyan), "'", "'"}

	// Muted formats secondary text. (parentheses) without colour.
	Muted = Formatter{color.New(color.FgHiBlack), "(", ")"}

	// Secret formats a revealed password so it stands out. [brackets] without colour.
	Secret = Formatter{color.New(color.FgHiMagenta, color.Bold), "[", "]"}

	// Corrupt marks records whose secret could not be opened.
	Corrupt = Formatter{color.New(color.FgRed, color.Bold), "!", "!"}
)

// ForStrength picks a formatter for a password strength label such as "weak" or "very strong".
func ForStrength(label string) Formatter {
	switch label {
	case "weak":
		return Error
	case "fair":
		return Warning
	case "good":
		return Info
	default:
		return Success
	}
}
