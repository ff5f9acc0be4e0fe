package timerange

// Preset is a selectable relative range ending now.
type Preset struct {
	Start string
	Label string
}

// Presets lists the ranges offered by the dashboard, shortest first.
var Presets = []Preset{
	{"-1h", "Last 1 hour"},
	{"-3h", "Last 3 hours"},
	{"-6h", "Last 6 hours"},
	{"-12h", "Last 12 hours"},
	{"-1d", "Last 1 day"},
	{"-2d", "Last 2 days"},
	{"-3d", "Last 3 days"},
	{"-1w", "Last 1 week"},
	{"-2w", "Last 2 weeks"},
	{"-3w", "Last 3 weeks"},
	{"-1mo", "Last 1 month"},
}

// PresetIndex returns the index of start in Presets, or -1.
func PresetIndex(start string) int {
	for i, p := range Presets {
		if p.Start == start {
			return i
		}
	}
	return -1
}

// StepPreset moves delta presets from start, wrapping at both ends. A start
// that is not a preset steps from the first entry.
func StepPreset(start string, delta int) Range {
	i := PresetIndex(start)
	if i < 0 {
		i = 0
		if delta > 0 {
			delta--
		}
	}
	n := len(Presets)
	i = ((i+delta)%n + n) % n
	return Range{Start: Presets[i].Start, Stop: Now}
}
