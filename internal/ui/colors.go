// Package ui styles terminal output for the CLI
package ui

import (
	"fmt"
	"os"
	"strings"
)

// ANSI color and style constants for CLI output
const (
	ColorReset = "\033[0m"
	ColorBold  = "\033[1m"
	ColorDim   = "\033[2m"

	ColorCyan   = "\033[36m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorWhite  = "\033[97m"
	ColorRed    = "\033[31m"
)

var enabled = os.Getenv("NO_COLOR") == ""

// SetEnabled turns styling on or off for every helper in this package
func SetEnabled(on bool) { enabled = on }

// Enabled reports whether output is styled
func Enabled() bool { return enabled }

// Paint wraps s in styles. With styling disabled s is returned as is.
func Paint(s string, styles ...string) string {
	if !enabled || len(styles) == 0 {
		return s
	}
	return strings.Join(styles, "") + s + ColorReset
}

func Bold(s string) string    { return Paint(s, ColorBold) }
func Success(s string) string { return Paint(s, ColorGreen) }
func Info(s string) string    { return Paint(s, ColorDim, ColorYellow) }
func Warn(s string) string    { return Paint(s, ColorYellow) }
func Error(s string) string   { return Paint(s, ColorRed) }

// Field formats one indented "label: value" line of a report, values aligned
func Field(label string, value any) string {
	return fmt.Sprintf("  %-14s%v", label+":", value)
}
