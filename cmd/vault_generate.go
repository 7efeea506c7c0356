package cmd

import (
	"fmt"

	"github.com/PolarWolf314/strongbox/internal/generator"
	"github.com/PolarWolf314/strongbox/internal/ui"
	"github.com/spf13/cobra"
)

var (
	generateLength      int
	generateNoUppercase bool
	generateNoDigits    bool
	generateNoSymbols   bool
	generateMemorable   bool
	generateWords       int
)

func init() {
	generateCmd.Flags().IntVarP(&generateLength, "length", "l", generator.DefaultLength, "password length")
	generateCmd.Flags().BoolVar(&generateNoUppercase, "no-uppercase", false, "leave out uppercase letters")
	generateCmd.Flags().BoolVar(&generateNoDigits, "no-digits", false, "leave out digits")
	generateCmd.Flags().BoolVar(&generateNoSymbols, "no-symbols", false, "leave out symbols")
	generateCmd.Flags().BoolVarP(&generateMemorable, "memorable", "m", false, "generate words joined by dashes")
	generateCmd.Flags().IntVar(&generateWords, "words", generator.DefaultWordCount, "number of words for --memorable")
}

func resetGenerateCommandState() {
	generateLength = generator.DefaultLength
	generateNoUppercase = false
	generateNoDigits = false
	generateNoSymbols = false
	generateMemorable = false
	generateWords = generator.DefaultWordCount
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a random password",
	Long: `Generates a random password and rates its strength. The vault is not
opened and nothing is stored.

Examples:
  strongbox vault generate
  strongbox vault generate --length 32 --no-symbols
  strongbox vault generate --memorable --words 4`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting generate command")

		var (
			password string
			err      error
		)
		if generateMemorable {
			password, err = generator.Memorable(generateWords, !generateNoDigits, !generateNoSymbols)
		} else {
			password, err = generator.Generate(generator.Options{
				Length:    generateLength,
				Lowercase: true,
				Uppercase: !generateNoUppercase,
				Digits:    !generateNoDigits,
				Symbols:   !generateNoSymbols,
			})
		}
		if err != nil {
			return printVaultError(err, "generate password")
		}

		strength := generator.StrengthOf(password)
		Logger.Debugf("Generated %d characters, %.1f bits", len(password), generator.Entropy(password))

		fmt.Fprintln(cmd.OutOrStdout(), password)
		fmt.Fprintln(cmd.ErrOrStderr(), "Strength: "+ui.ForStrength(strength.String()).Sprint(strength.String()))
		return nil
	},
}
