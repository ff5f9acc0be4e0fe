package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Progress bar block characters.
const (
	BarFilled = '█'
	BarEmpty  = '░'
)

// ColorFunc picks a bar color for a 0-100 percentage.
type ColorFunc func(percent float64) lipgloss.Color

// ShareColor colors a share of time where higher is better: green at 90%
// and above, amber from 50%, red below.
func ShareColor(percent float64) lipgloss.Color {
	switch {
	case percent >= 90:
		return ColorSuccess
	case percent >= 50:
		return ColorWarning
	default:
		return ColorError
	}
}

// BarConfig configures progress bar rendering.
type BarConfig struct {
	Width       int       // Width of the bar in characters
	Brackets    bool      // Whether to wrap bar in [ ]
	ColorFunc   ColorFunc // Function to determine bar color
	ShowPercent bool      // Whether to append percentage
}

// DefaultBarConfig returns a bracketed, percent-labelled bar config.
func DefaultBarConfig(width int) BarConfig {
	return BarConfig{
		Width:       width,
		Brackets:    true,
		ColorFunc:   ShareColor,
		ShowPercent: true,
	}
}

// ClampPercent clamps a percentage to the 0-100 range.
func ClampPercent(percent float64) float64 {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

// BarCounts returns the number of filled and empty cells for percent.
func BarCounts(percent float64, width int) (filled, empty int) {
	filled = int(ClampPercent(percent) / 100.0 * float64(width))
	empty = width - filled
	return
}

// BuildBarString builds the raw bar string (without styling) from filled/empty counts.
func BuildBarString(filledCount, emptyCount int, brackets bool) string {
	var sb strings.Builder
	if brackets {
		sb.WriteRune('[')
	}
	sb.WriteString(strings.Repeat(string(BarFilled), filledCount))
	sb.WriteString(strings.Repeat(string(BarEmpty), emptyCount))
	if brackets {
		sb.WriteRune(']')
	}
	return sb.String()
}

// RenderBar renders a progress bar with the given configuration.
// Output format: [████████░░░░]  67%
func RenderBar(percent float64, config BarConfig) string {
	if config.Width <= 0 {
		return ""
	}

	filled, empty := BarCounts(percent, config.Width)
	bar := BuildBarString(filled, empty, config.Brackets)

	if config.ColorFunc != nil {
		bar = lipgloss.NewStyle().Foreground(config.ColorFunc(ClampPercent(percent))).Render(bar)
	}

	if config.ShowPercent {
		bar += fmt.Sprintf(" %3.0f%%", ClampPercent(percent))
	}
	return bar
}
