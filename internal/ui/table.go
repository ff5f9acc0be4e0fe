package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// NewTable creates a new Bubbles table with default styling.
func NewTable(columns []TableColumn, rows []table.Row) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{
			Title: c.Title,
			Width: c.Width,
		}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1), // +1 for header
	)

	// Apply styling
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Cell = s.Cell.
		Foreground(ColorPrimary)
	s.Selected = s.Selected.
		Foreground(ColorPrimary).
		Background(ColorMuted).
		Bold(false)

	t.SetStyles(s)
	return t
}

// RenderSimpleTable renders a non-interactive table string.
// This is for CLI output (not TUI), producing a simple formatted table.
func RenderSimpleTable(columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	// Create the table
	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}

	t := NewTable(columns, tableRows)
	return t.View()
}

// Indicator is a named on/off status.
type Indicator struct {
	Label string
	On    bool
}

// RenderIndicators renders one "● Label" line per indicator, green when on
// and red when off.
func RenderIndicators(items []Indicator) string {
	if len(items) == 0 {
		return ""
	}

	onStyle := lipgloss.NewStyle().Foreground(ColorSuccess)
	offStyle := lipgloss.NewStyle().Foreground(ColorError)

	var sb strings.Builder
	for _, item := range items {
		dot := offStyle.Render(SymbolComplete)
		if item.On {
			dot = onStyle.Render(SymbolComplete)
		}
		sb.WriteString("  " + dot + " " + item.Label + "\n")
	}
	return sb.String()
}

// Row is a label/value pair in a section listing.
type Row struct {
	Label string
	Value string
}

// Section is a titled group of rows.
type Section struct {
	Title string
	Rows  []Row
}

// RenderSections renders each section as a bold title followed by aligned
// label/value rows. Empty sections are skipped.
func RenderSections(sections []Section) string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary)
	labelStyle := lipgloss.NewStyle().Foreground(ColorSecondary)

	var sb strings.Builder
	for _, sec := range sections {
		if len(sec.Rows) == 0 {
			continue
		}

		width := 0
		for _, row := range sec.Rows {
			if w := lipgloss.Width(row.Label); w > width {
				width = w
			}
		}

		sb.WriteString(headerStyle.Render(sec.Title) + "\n")
		for _, row := range sec.Rows {
			sb.WriteString("  " + padRight(labelStyle.Render(row.Label), width+2) + row.Value + "\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// padRight pads a string to the specified width.
func padRight(s string, width int) string {
	visibleLen := lipgloss.Width(s)
	if visibleLen >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visibleLen)
}
