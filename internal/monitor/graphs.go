package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vtarchitect/vtconsole/internal/api"
	"github.com/vtarchitect/vtconsole/internal/timerange"
)

// Braille character rendering for high-resolution terminal graphs.
//
// Braille patterns use a 2x4 dot matrix per character:
//
//	  Col 0  Col 1
//	Row 0:   ⠁      ⠈     (dots 1, 4)
//	Row 1:   ⠂      ⠐     (dots 2, 5)
//	Row 2:   ⠄      ⠠     (dots 3, 6)
//	Row 3:   ⡀      ⢀     (dots 7, 8)
//
// Unicode braille starts at U+2800 (empty) and uses bit patterns:
// bit 0 = dot 1, bit 1 = dot 2, bit 2 = dot 3, bit 3 = dot 4,
// bit 4 = dot 5, bit 5 = dot 6, bit 6 = dot 7, bit 7 = dot 8

const brailleBase = '\u2800'

// brailleDots maps [row][col] within a cell to the bit offset.
var brailleDots = [4][2]uint8{
	{0, 3},
	{1, 4},
	{2, 5},
	{6, 7},
}

// findMinMax returns the minimum and maximum values in a slice.
func findMinMax(data []float64) (minVal, maxVal float64) {
	if len(data) == 0 {
		return 0, 0
	}
	minVal, maxVal = data[0], data[0]
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return minVal, maxVal
}

// normalizeValue converts a value to 0-1 range given min/max bounds. A flat
// series sits in the middle.
func normalizeValue(val, minVal, maxVal float64) float64 {
	if maxVal > minVal {
		return (val - minVal) / (maxVal - minVal)
	}
	return 0.5
}

// clampInt clamps an integer to [0, maxVal].
func clampInt(val, maxVal int) int {
	if val < 0 {
		return 0
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// brailleRows plots data into height rows of width braille cells. Each cell
// holds two samples; shorter series are right-aligned.
func brailleRows(data []float64, width, height int) []string {
	minVal, maxVal := findMinMax(data)
	totalDots := height * 4
	targetPoints := width * 2

	resampled := data
	if len(data) > targetPoints {
		resampled = resampleData(data, targetPoints)
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = brailleBase
		}
	}

	horizOffset := targetPoints - len(resampled)
	if horizOffset < 0 {
		horizOffset = 0
	}

	for i, val := range resampled {
		// Always light the bottom dot so zero values stay visible.
		dotHeight := clampInt(int(normalizeValue(val, minVal, maxVal)*float64(totalDots)), totalDots)
		if dotHeight == 0 {
			dotHeight = 1
		}

		charCol := (i + horizOffset) / 2
		if charCol >= width {
			continue
		}
		subCol := (i + horizOffset) % 2

		for dot := 0; dot < dotHeight; dot++ {
			row := height - 1 - (dot / 4)
			if row < 0 {
				continue
			}
			subRow := 3 - (dot % 4)
			grid[row][charCol] |= rune(1 << brailleDots[subRow][subCol])
		}
	}

	rows := make([]string, height)
	for i, row := range grid {
		rows[i] = string(row)
	}
	return rows
}

// RenderBrailleGraph renders data as a filled braille area graph scaled
// between its own min and max.
func RenderBrailleGraph(data []float64, width, height int, color lipgloss.Color) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	style := lipgloss.NewStyle().Foreground(color)
	rows := brailleRows(data, width, height)
	for i, row := range rows {
		rows[i] = style.Render(row)
	}
	return strings.Join(rows, "\n")
}

// RenderHistoryGraph renders a float series with a value axis on the left
// and time ticks underneath. Ticks use timerange.FormatTick, so multi-day
// ranges show dates instead of clock times.
func RenderHistoryGraph(points []api.FloatDataPoint, width, height int, multiDay bool) string {
	if len(points) == 0 || height <= 0 {
		return ""
	}

	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	minVal, maxVal := findMinMax(values)

	maxLabel := fmt.Sprintf("%.2f", maxVal)
	minLabel := fmt.Sprintf("%.2f", minVal)
	labelWidth := lipgloss.Width(maxLabel)
	if w := lipgloss.Width(minLabel); w > labelWidth {
		labelWidth = w
	}

	graphWidth := width - labelWidth - 2
	if graphWidth < 4 {
		graphWidth = 4
	}

	rows := brailleRows(values, graphWidth, height)
	axisStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	graphStyle := lipgloss.NewStyle().Foreground(ColorGraph)

	lines := make([]string, 0, height+1)
	for i, row := range rows {
		label := ""
		switch {
		case i == 0:
			label = maxLabel
		case i == height-1:
			label = minLabel
		}
		lines = append(lines,
			MutedStyle.Render(fmt.Sprintf("%*s", labelWidth, label))+
				axisStyle.Render(" │")+
				graphStyle.Render(row))
	}

	ticks := tickLine(points, graphWidth, multiDay)
	lines = append(lines, strings.Repeat(" ", labelWidth+2)+MutedStyle.Render(ticks))

	return strings.Join(lines, "\n")
}

// tickLine places the first, middle and last sample times along width
// columns, dropping the middle one when it would collide.
func tickLine(points []api.FloatDataPoint, width int, multiDay bool) string {
	line := []rune(strings.Repeat(" ", width))
	place := func(at int, label string) bool {
		r := []rune(label)
		if at < 0 || at+len(r) > width {
			return false
		}
		for i := at; i < at+len(r); i++ {
			if line[i] != ' ' {
				return false
			}
		}
		copy(line[at:], r)
		return true
	}

	first := timerange.FormatTick(points[0].Time, multiDay)
	place(0, first)

	if len(points) > 1 {
		last := timerange.FormatTick(points[len(points)-1].Time, multiDay)
		if place(width-len([]rune(last)), last) && len(points) > 2 {
			mid := timerange.FormatTick(points[len(points)/2].Time, multiDay)
			at := width/2 - len([]rune(mid))/2
			// Keep a gap of one column on either side.
			if at > len([]rune(first)) && at+len([]rune(mid)) < width-len([]rune(last)) {
				place(at, mid)
			}
		}
	}

	return strings.TrimRight(string(line), " ")
}

// resampleData resamples data to the target size.
// When downsampling, uses max-based sampling to preserve peaks.
// When upsampling, uses linear interpolation.
func resampleData(data []float64, targetSize int) []float64 {
	if len(data) == 0 || targetSize <= 0 {
		return nil
	}

	if len(data) == targetSize {
		return data
	}

	result := make([]float64, targetSize)

	if len(data) == 1 {
		for i := range result {
			result[i] = data[0]
		}
		return result
	}

	if len(data) > targetSize {
		bucketSize := float64(len(data)) / float64(targetSize)
		for i := 0; i < targetSize; i++ {
			start := int(float64(i) * bucketSize)
			end := int(float64(i+1) * bucketSize)
			if end > len(data) {
				end = len(data)
			}
			if start >= end {
				start = end - 1
			}
			if start < 0 {
				start = 0
			}

			maxVal := data[start]
			for j := start + 1; j < end; j++ {
				if data[j] > maxVal {
					maxVal = data[j]
				}
			}
			result[i] = maxVal
		}
		return result
	}

	scale := float64(len(data)-1) / float64(targetSize-1)
	for i := 0; i < targetSize; i++ {
		pos := float64(i) * scale
		idx := int(pos)
		frac := pos - float64(idx)

		if idx >= len(data)-1 {
			result[i] = data[len(data)-1]
		} else {
			result[i] = data[idx]*(1-frac) + data[idx+1]*frac
		}
	}

	return result
}
