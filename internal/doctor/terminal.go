package doctor

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/vtarchitect/vtconsole/internal/ui"
)

// MinDashboardWidth is the narrowest terminal the dashboard lays out
// without collapsing to its minimal layout.
const MinDashboardWidth = 80

// NewTerminalChecks returns the TERMINAL checks for out.
func NewTerminalChecks(out *os.File) []Check {
	return []Check{
		&TerminalCheck{Out: out},
		&ColorCheck{},
	}
}

// TerminalCheck verifies out is a terminal wide enough for the dashboard.
type TerminalCheck struct {
	Out *os.File
}

func (c *TerminalCheck) Name() string     { return "terminal" }
func (c *TerminalCheck) Category() string { return CategoryTerminal }

func (c *TerminalCheck) Run(context.Context) CheckResult {
	if !ui.IsTerminal(c.Out) {
		return warn(c, "Output is not a terminal",
			"The dashboard needs an interactive terminal; stats and history still work")
	}
	width := ui.TerminalWidth(c.Out)
	if width < MinDashboardWidth {
		return warn(c, fmt.Sprintf("Terminal is %d columns wide", width),
			fmt.Sprintf("Widen it to at least %d columns for the full dashboard", MinDashboardWidth))
	}
	return pass(c, fmt.Sprintf("Terminal is %d columns wide", width))
}

// ColorCheck reports the color profile lipgloss renders with.
type ColorCheck struct{}

func (c *ColorCheck) Name() string     { return "colors" }
func (c *ColorCheck) Category() string { return CategoryTerminal }

func (c *ColorCheck) Run(context.Context) CheckResult {
	switch lipgloss.ColorProfile() {
	case termenv.TrueColor:
		return pass(c, "True color output")
	case termenv.ANSI256:
		return pass(c, "256 color output")
	case termenv.ANSI:
		return pass(c, "16 color output")
	default:
		return warn(c, "Colors are disabled",
			"Status colors won't show; check NO_COLOR, --no-color and output.color")
	}
}
