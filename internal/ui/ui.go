// Package ui centralizes the terminal styling used by the verifier:
// run banners, step progress lines, and severity colors for the report.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("5")).Padding(0, 1)
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	substepStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	goodStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	badStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// Header renders a section banner.
func Header(msg string) string { return headerStyle.Render(msg) }

// Step renders a top-level progress line.
func Step(msg string) string { return stepStyle.Render("> " + msg) }

// Substep renders a nested progress line, e.g. an executed command.
func Substep(msg string) string { return substepStyle.Render(">> " + msg) }

// Notice renders cautionary text such as the run disclaimer.
func Notice(msg string) string { return noticeStyle.Render(msg) }

// Good renders a success summary line.
func Good(msg string) string { return goodStyle.Render(msg) }

// Bad renders a failure summary line.
func Bad(msg string) string { return badStyle.Render(msg) }

// Severity returns the style for a severity label in the report.
func Severity(label string) lipgloss.Style {
	switch label {
	case "PASS":
		return goodStyle
	case "WARN":
		return noticeStyle
	case "NOTE":
		return substepStyle
	default: // FAIL, ERROR
		return badStyle
	}
}
