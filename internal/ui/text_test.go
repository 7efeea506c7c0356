package ui

import (
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestFormatterWithColor(t *testing.T) {
	os.Unsetenv("NO_COLOR")
	original := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = original }()

	result := Code.Sprint("strongbox vault init")
	if strings.Contains(result, "`") {
		t.Errorf("Code.Sprint should not contain backticks when color is enabled, got: %s", result)
	}
	if !strings.Contains(result, "\x1b[") {
		t.Errorf("Code.Sprint should contain ANSI escape codes when color is enabled, got: %s", result)
	}
}

func TestFormatterWithNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	tests := []struct {
		name      string
		formatter Formatter
		input     string
		want      string
	}{
		{"Code adds backticks", Code, "strongbox vault list", "`strongbox vault list`"},
		{"Path has no decoration", Path, "vault.db", "vault.db"},
		{"Success has no decoration", Success, "✓", "✓"},
		{"Highlight adds quotes", Highlight, "GitHub", "'GitHub'"},
		{"Muted adds parentheses", Muted, "no notes", "(no notes)"},
		{"Secret adds brackets", Secret, "hunter2", "[hunter2]"},
		{"Corrupt adds bangs", Corrupt, "corrupted", "!corrupted!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.formatter.Sprint(tt.input); got != tt.want {
				t.Errorf("Sprint(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSprintfWithNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	if got := Highlight.Sprintf("%d records", 3); got != "'3 records'" {
		t.Errorf("Highlight.Sprintf = %q, want %q", got, "'3 records'")
	}
}

func TestForStrength(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	tests := map[string]Formatter{
		"weak":        Error,
		"fair":        Warning,
		"good":        Info,
		"strong":      Success,
		"very strong": Success,
	}
	for label, want := range tests {
		if got := ForStrength(label); got.color != want.color {
			t.Errorf("ForStrength(%q) picked the wrong formatter", label)
		}
	}
}

func TestEnsureNewline(t *testing.T) {
	if got := EnsureNewline("done"); got != "done\n" {
		t.Errorf("Expected trailing newline, got %q", got)
	}
	if got := EnsureNewline("done\n"); got != "done\n" {
		t.Errorf("Expected single newline, got %q", got)
	}
}
