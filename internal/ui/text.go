// Package ui provides the small amount of terminal styling the CLI does:
// semantic color formatters that degrade to plain-text markers when color
// output is disabled.
package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Formatter applies one semantic style to text.
type Formatter struct {
	color  *color.Color
	prefix string
	suffix string
}

// Sprint formats the arguments and returns the styled string.
func (f Formatter) Sprint(a ...interface{}) string {
	text := fmt.Sprint(a...)
	if noColor() {
		return f.prefix + text + f.suffix
	}
	return f.color.Sprint(text)
}

// Sprintf formats according to a format specifier and returns the styled
// string.
func (f Formatter) Sprintf(format string, a ...interface{}) string {
	text := fmt.Sprintf(format, a...)
	if noColor() {
		return f.prefix + text + f.suffix
	}
	return f.color.Sprint(text)
}

// EnsureNewline appends a newline when s does not already end with one.
func EnsureNewline(s string) string {
	if len(s) == 0 || s[len(s)-1] != '\n' {
		return s + "\n"
	}
	return s
}

// noColor reports whether color output should be disabled.
func noColor() bool {
	// NO_COLOR convention (https://no-color.org/).
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return true
	}
	// fatih/color's own detection covers TERM=dumb and non-terminals.
	return color.NoColor
}

// Semantic formatters used across the CLI.
var (
	// Success marks completed operations. Green, unchanged without color.
	Success = Formatter{color.New(color.FgGreen), "", ""}

	// Error marks failures. Red, unchanged without color.
	Error = Formatter{color.New(color.FgRed), "", ""}

	// Warning marks degraded but non-fatal conditions. Yellow.
	Warning = Formatter{color.New(color.FgYellow), "", ""}

	// Info marks hints and follow-up suggestions. Cyan.
	Info = Formatter{color.New(color.FgCyan), "", ""}

	// Code formats runnable commands. Yellow, `backticks` without color.
	Code = Formatter{color.New(color.FgYellow), "`", "`"}

	// Path formats file and directory paths. Yellow, bare without color.
	Path = Formatter{color.New(color.FgYellow), "", ""}

	// Highlight formats user-supplied values like key names. Cyan,
	// 'single quotes' without color.
	Highlight = Formatter{color.New(color.FgCyan), "'", "'"}
)
