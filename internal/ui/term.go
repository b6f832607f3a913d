package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the UI.
var (
	// Cleanly placed slots
	colorPlaced = color.New(color.FgCyan, color.Bold)

	// Slots accepted on top of another one
	colorOverlap = color.New(color.FgYellow)

	// Whole-duration fallback on today
	colorFallback = color.New(color.FgRed, color.Bold)

	colorHeader = color.New(color.Bold)

	// Stats: green for totals
	colorStats = color.New(color.FgGreen)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

func formatStats(s string) string {
	return colorStats.Sprint(s)
}

func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}

func formatWarning(s string) string {
	return colorOverlap.Sprint(s)
}
