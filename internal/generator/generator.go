package generator

import (
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"strings"
	"unicode"

	kerrors "github.com/PolarWolf314/strongbox/internal/errors"
)

const (
	DefaultLength = 16
	MinLength     = 4
	MaxLength     = 128

	Lowercase = "abcdefghijklmnopqrstuvwxyz"
	Uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Digits    = "0123456789"
	Symbols   = "!@#$%^&*()_+-=[]{}|;:,.<>?"

	// DefaultWordCount is used by Memorable when words is zero.
	DefaultWordCount = 3
)

var wordList = []string{
	"apple", "blue", "cloud", "dance", "eagle", "flame", "green", "house",
	"island", "jungle", "kite", "lemon", "mountain", "night", "ocean", "piano",
	"quiet", "river", "storm", "tree", "urban", "violet", "water", "xenon",
	"yellow", "zebra", "amber", "bronze", "crystal", "diamond", "emerald",
}

// Options selects the length and character classes of a generated password.
type Options struct {
	// Length is clamped to [MinLength, MaxLength]. Zero means DefaultLength.
	Length int

	Lowercase bool
	Uppercase bool
	Digits    bool
	Symbols   bool
}

// DefaultOptions enables every character class at DefaultLength.
func DefaultOptions() Options {
	return Options{Length: DefaultLength, Lowercase: true, Uppercase: true, Digits: true, Symbols: true}
}

// Generate returns a random password containing at least one character from
// every selected class. Returns ErrInvalidInput if no class is selected.
func Generate(opts Options) (string, error) {
	length := opts.Length
	if length == 0 {
		length = DefaultLength
	}
	length = min(max(length, MinLength), MaxLength)

	var classes []string
	if opts.Lowercase {
		classes = append(classes, Lowercase)
	}
	if opts.Uppercase {
		classes = append(classes, Uppercase)
	}
	if opts.Digits {
		classes = append(classes, Digits)
	}
	if opts.Symbols {
		classes = append(classes, Symbols)
	}
	if len(classes) == 0 {
		return "", fmt.Errorf("%w: at least one character class must be selected", kerrors.ErrInvalidInput)
	}
	charset := strings.Join(classes, "")

	out := make([]byte, 0, length)
	for _, class := range classes {
		c, err := pick(class)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}
	for len(out) < length {
		c, err := pick(charset)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}

	if err := shuffle(out); err != nil {
		return "", err
	}
	return string(out), nil
}

// Memorable joins random words with hyphens and optionally appends a
// three-digit number and an exclamation mark.
func Memorable(words int, withNumber, withSymbol bool) (string, error) {
	if words <= 0 {
		words = DefaultWordCount
	}

	parts := make([]string, words)
	for i := range parts {
		n, err := randInt(len(wordList))
		if err != nil {
			return "", err
		}
		parts[i] = wordList[n]
	}

	var b strings.Builder
	b.WriteString(strings.Join(parts, "-"))
	if withNumber {
		n, err := randInt(900)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%d", 100+n)
	}
	if withSymbol {
		b.WriteString("!")
	}
	return b.String(), nil
}

// Strength is a coarse rating of password entropy.
type Strength int

const (
	StrengthWeak Strength = iota
	StrengthFair
	StrengthGood
	StrengthStrong
	StrengthVeryStrong
)

// String returns a string representation of Strength.
func (s Strength) String() string {
	switch s {
	case StrengthWeak:
		return "weak"
	case StrengthFair:
		return "fair"
	case StrengthGood:
		return "good"
	case StrengthStrong:
		return "strong"
	default:
		return "very strong"
	}
}

// Entropy estimates the bits of entropy in password from its length and the
// smallest character set that covers it.
func Entropy(password string) float64 {
	if password == "" {
		return 0
	}

	size := float64(len(Lowercase + Uppercase + Digits + Symbols))
	switch {
	case all(password, unicode.IsDigit):
		size = 10
	case all(password, unicode.IsLower), all(password, unicode.IsUpper):
		size = 26
	case all(password, unicode.IsLetter):
		size = 52
	case all(password, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }):
		size = 62
	}
	return float64(len([]rune(password))) * math.Log2(size)
}

// StrengthOf rates password by its Entropy.
func StrengthOf(password string) Strength {
	bits := Entropy(password)
	switch {
	case bits < 35:
		return StrengthWeak
	case bits < 50:
		return StrengthFair
	case bits < 60:
		return StrengthGood
	case bits < 80:
		return StrengthStrong
	default:
		return StrengthVeryStrong
	}
}

func all(s string, fn func(rune) bool) bool {
	for _, r := range s {
		if !fn(r) {
			return false
		}
	}
	return true
}

func pick(set string) (byte, error) {
	n, err := randInt(len(set))
	if err != nil {
		return 0, err
	}
	return set[n], nil
}

// shuffle is a Fisher-Yates shuffle driven by crypto/rand.
func shuffle(b []byte) error {
	for i := len(b) - 1; i > 0; i-- {
		j, err := randInt(i + 1)
		if err != nil {
			return err
		}
		b[i], b[j] = b[j], b[i]
	}
	return nil
}

func randInt(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("reading random bytes: %w", err)
	}
	return int(v.Int64()), nil
}
