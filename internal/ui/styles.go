// Package ui centralizes terminal styling and table rendering for the
// diagnostic commands.
package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	passStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")). // Green
			Bold(true)

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // Red
			Bold(true)

	regressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")) // Orange

	headerStyle = lipgloss.NewStyle().Bold(true)
)

func init() {
	// Follow the terminal's actual capabilities; plain pipes get plain
	// text.
	lipgloss.DefaultRenderer().SetColorProfile(termenv.EnvColorProfile())
}

// Passed returns the styled conformance verdict line.
func Passed() string { return passStyle.Render("[ PASSED ]") }

// Failed returns the styled conformance verdict line.
func Failed() string { return failStyle.Render("[ FAILED ]") }

// Header styles a table header cell.
func Header(s string) string { return headerStyle.Render(s) }
