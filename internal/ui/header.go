package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HeaderInfo contains information to display in the header.
type HeaderInfo struct {
	Title    string // e.g. "vtconsole"
	Range    string // Range label, e.g. "Past 3 hours"
	Duration string // e.g. "3h 0m"
	Source   string // Optional backend address
}

// HeaderWidth is the default width of the header divider
const HeaderWidth = 50

// RenderHeader renders the title line, the range being shown, and a divider.
func RenderHeader(info HeaderInfo) string {
	titleStyle := lipgloss.NewStyle().
		Foreground(ColorNeonPink).
		Bold(true)
	rangeStyle := lipgloss.NewStyle().Foreground(ColorNeonCyan)
	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	dividerStyle := lipgloss.NewStyle().Foreground(ColorGlassBorder)

	var output strings.Builder

	output.WriteString(titleStyle.Render(info.Title))
	if info.Range != "" {
		output.WriteString("  ")
		output.WriteString(rangeStyle.Render(info.Range))
	}
	if info.Duration != "" {
		output.WriteString(" ")
		output.WriteString(mutedStyle.Render("(" + info.Duration + ")"))
	}
	output.WriteString("\n")

	if info.Source != "" {
		output.WriteString(mutedStyle.Render(info.Source))
		output.WriteString("\n")
	}

	output.WriteString(dividerStyle.Render(strings.Repeat("━", HeaderWidth)))
	output.WriteString("\n")

	return output.String()
}
