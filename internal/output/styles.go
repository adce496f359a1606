package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette: named constants for the ANSI 256 colors used in the CLI.
// These are the single source of truth; never use inline lipgloss.Color
// literals.
var (
	// ColorCyan is used for identifiable nouns: module names, addresses,
	// namespaces.
	ColorCyan = lipgloss.Color("14")

	// ColorGreen is used for the "loaded" module status.
	ColorGreen = lipgloss.Color("82")

	// ColorYellow is used for the "skipped" module status.
	ColorYellow = lipgloss.Color("220")

	// ColorBoldRed is used for the "failed" module status (matches ERROR
	// level).
	ColorBoldRed = lipgloss.Color("204")

	// ColorGreenCheck is used for the completion checkmark (✔).
	ColorGreenCheck = lipgloss.Color("10")
)

// Semantic styles mapping domain concepts to visual presentation.
var (
	// StyleNoun styles identifiable nouns (module names, addresses).
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleDim styles structural chrome (prefixes, separators).
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)
)

// Module load status constants.
const (
	StatusLoaded  = "loaded"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// StatusStyle returns the lipgloss style for a module load status.
// Unknown statuses return an unstyled default.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case StatusLoaded:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case StatusSkipped:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case StatusFailed:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorBoldRed)
	default:
		return lipgloss.NewStyle()
	}
}

// minModuleColumnWidth is the minimum width for the module column before
// the status suffix, so status words align consistently.
const minModuleColumnWidth = 40

// FormatModuleLine renders a module identifier with a right-aligned,
// color-coded status suffix.
//
// Format: m:<name@version>  <status>
func FormatModuleLine(name, version, status string) string {
	path := name
	if version != "" {
		path = fmt.Sprintf("%s@%s", name, version)
	}

	padding := minModuleColumnWidth - len(path)
	if padding < 2 {
		padding = 2
	}

	prefix := StyleDim.Render("m:")
	styledPath := StyleNoun.Render(path)
	styledStatus := StatusStyle(status).Render(status)

	return prefix + styledPath + strings.Repeat(" ", padding) + styledStatus
}

// FormatCheckmark renders a green checkmark with a message for stdout
// output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}
