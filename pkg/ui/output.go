// Package ui renders command output: styled status lines, ranking
// tables and JSON envelopes.
package ui

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	accentColor  = lipgloss.Color("#00FFFF")
	valueColor   = lipgloss.Color("#FFFF00")
	successColor = lipgloss.Color("#39FF14")
	warnColor    = lipgloss.Color("#FF6700")
	errorColor   = lipgloss.Color("#FF0000")
	dimColor     = lipgloss.Color("#B0B0B0")

	labelStyle   = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	valueStyle   = lipgloss.NewStyle().Foreground(valueColor)
	successStyle = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(warnColor).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	noteStyle    = lipgloss.NewStyle().Foreground(dimColor).Faint(true)
)

var quietMode bool

// SetQuietMode suppresses everything except errors.
func SetQuietMode(quiet bool) {
	quietMode = quiet
}

// PrintError prints an error message to stderr.
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Fprintln(os.Stderr, errorStyle.Render(msg+": "+fmt.Sprintf("%v", args[0])))
		return
	}
	fmt.Fprintln(os.Stderr, errorStyle.Render(msg))
}

// PrintSuccess prints a success message.
func PrintSuccess(msg string) {
	if quietMode {
		return
	}
	fmt.Println(successStyle.Render(msg))
}

// PrintInfo prints a label/value pair.
func PrintInfo(label, value string) {
	if quietMode {
		return
	}
	fmt.Printf("%s: %s\n", labelStyle.Render(label), valueStyle.Render(value))
}

// PrintWarning prints a warning message.
func PrintWarning(msg string, args ...interface{}) {
	if quietMode {
		return
	}
	if len(args) > 0 {
		fmt.Println(warnStyle.Render(msg + ": " + fmt.Sprintf("%v", args[0])))
		return
	}
	fmt.Println(warnStyle.Render(msg))
}

// PrintNote prints a dimmed annotation line, used for limitation and
// approximation notes attached to results.
func PrintNote(msg string) {
	if quietMode {
		return
	}
	fmt.Println(noteStyle.Render(msg))
}

// PrintJSON pretty-prints a value as an indented JSON document.
func PrintJSON(value interface{}) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
