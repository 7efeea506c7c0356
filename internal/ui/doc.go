// Package ui provides semantic text formatting for CLI output.
//
// Formatters colour text when the terminal supports it. When NO_COLOR is set
// or colours are unavailable, they fall back to plain decorations instead:
//
//	ui.Code.Sprint("strongbox vault init")   // `strongbox vault init`
//	ui.Highlight.Sprint("GitHub")            // 'GitHub'
//	ui.Muted.Sprint("no notes")              // (no notes)
//	ui.Secret.Sprint(password)               // [hunter2]
//	ui.Corrupt.Sprint("corrupted")           // !corrupted!
//
// ForStrength maps generator strength labels onto Error, Warning, Info or
// Success.
package ui
