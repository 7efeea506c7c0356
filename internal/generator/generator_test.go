package generator

import (
	"errors"
	"strings"
	"testing"

	kerrors "github.com/PolarWolf314/strongbox/internal/errors"
)

func TestGenerate_LengthClamped(t *testing.T) {
	tests := []struct {
		name   string
		length int
		want   int
	}{
		{"Default", 0, DefaultLength},
		{"TooShort", 1, MinLength},
		{"Negative", -5, MinLength},
		{"TooLong", 500, MaxLength},
		{"Exact", 24, 24},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Length = tc.length
			pw, err := Generate(opts)
			if err != nil {
				t.Fatalf("Failed to generate: %v", err)
			}
			if len(pw) != tc.want {
				t.Errorf("Expected length %d, got %d", tc.want, len(pw))
			}
		})
	}
}

func TestGenerate_ContainsEverySelectedClass(t *testing.T) {
	for i := 0; i < 200; i++ {
		pw, err := Generate(Options{Length: MinLength, Lowercase: true, Uppercase: true, Digits: true, Symbols: true})
		if err != nil {
			t.Fatalf("Failed to generate: %v", err)
		}
		for _, class := range []string{Lowercase, Uppercase, Digits, Symbols} {
			if !strings.ContainsAny(pw, class) {
				t.Fatalf("Password %q is missing a character from %q", pw, class)
			}
		}
	}
}

func TestGenerate_OnlySelectedClasses(t *testing.T) {
	pw, err := Generate(Options{Length: 64, Digits: true})
	if err != nil {
		t.Fatalf("Failed to generate: %v", err)
	}
	for _, r := range pw {
		if !strings.ContainsRune(Digits, r) {
			t.Fatalf("Unexpected character %q in digits-only password", r)
		}
	}
}

func TestGenerate_NoClasses(t *testing.T) {
	if _, err := Generate(Options{Length: 10}); !errors.Is(err, kerrors.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestMemorable(t *testing.T) {
	pw, err := Memorable(4, true, true)
	if err != nil {
		t.Fatalf("Failed to generate: %v", err)
	}
	if !strings.HasSuffix(pw, "!") {
		t.Errorf("Expected trailing symbol, got %q", pw)
	}
	if got := len(strings.Split(pw, "-")); got != 4 {
		t.Errorf("Expected 4 words, got %d in %q", got, pw)
	}

	plain, err := Memorable(0, false, false)
	if err != nil {
		t.Fatalf("Failed to generate: %v", err)
	}
	if got := len(strings.Split(plain, "-")); got != DefaultWordCount {
		t.Errorf("Expected %d words, got %d in %q", DefaultWordCount, got, plain)
	}
	if strings.ContainsAny(plain, Digits+"!") {
		t.Errorf("Expected only words, got %q", plain)
	}
}

func TestStrengthOf(t *testing.T) {
	tests := []struct {
		password string
		want     Strength
	}{
		{"1234", StrengthWeak},
		{"abcdefghij", StrengthFair},
		{"abcdefghijkl", StrengthGood},
		{"Abcdefghij12", StrengthStrong},
		{"Abcdefgh!j12Abcdefgh!j12", StrengthVeryStrong},
	}

	for _, tc := range tests {
		t.Run(tc.password, func(t *testing.T) {
			if got := StrengthOf(tc.password); got != tc.want {
				t.Errorf("StrengthOf(%q) = %s (%.1f bits), expected %s", tc.password, got, Entropy(tc.password), tc.want)
			}
		})
	}
}
