// Package ux provides styled terminal output for step progress and final
// run status.
package ux

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorSuccess = lipgloss.Color("#2CD7C7")
	colorWarning = lipgloss.Color("#F4D03F")
	colorError   = lipgloss.Color("#E74C3C")
	colorMuted   = lipgloss.Color("#6C7A89")

	styleStep    = lipgloss.NewStyle().Bold(true)
	styleCounter = lipgloss.NewStyle().Foreground(colorMuted)
	styleSuccess = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	styleWarning = lipgloss.NewStyle().Foreground(colorWarning)
	styleError   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
)

// Step prints a progress line for the step about to run.
func Step(current, total int, name string) {
	fmt.Fprintf(os.Stderr, "%s %s\n",
		styleCounter.Render(fmt.Sprintf("[%d/%d]", current, total)),
		styleStep.Render(name))
}

// Success prints a success banner.
func Success(msg string) {
	fmt.Fprintln(os.Stderr, styleSuccess.Render("✔ "+msg))
}

// Warn prints a warning line.
func Warn(msg string) {
	fmt.Fprintln(os.Stderr, styleWarning.Render("! "+msg))
}

// Failure prints a failure banner. The text is the last thing the operator
// sees before a non-zero exit, so it names the failing step.
func Failure(msg string) {
	fmt.Fprintln(os.Stderr, styleError.Render("✘ "+msg))
}
