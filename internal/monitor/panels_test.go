package monitor

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vtarchitect/vtconsole/internal/api"
	vterrors "github.com/vtarchitect/vtconsole/internal/errors"
	"github.com/vtarchitect/vtconsole/internal/fields"
)

func decodeStats(t *testing.T, raw string) *api.StatsResponse {
	t.Helper()
	var out api.StatsResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return &out
}

func TestSortProjectMeta(t *testing.T) {
	meta := fields.FromPairs(
		fields.Pair[string]{Key: "Zone", Value: "B"},
		fields.Pair[string]{Key: "Manufacturer", Value: "Acme"},
		fields.Pair[string]{Key: "Alpha", Value: "1"},
		fields.Pair[string]{Key: "Project Number", Value: "42"},
		fields.Pair[string]{Key: "Project Name", Value: "Feeder"},
	)

	got := SortProjectMeta(meta)
	assert.Equal(t, []string{"Project Name", "Project Number", "Manufacturer", "Alpha", "Zone"}, got.Keys())
	assert.Equal(t, "Zone", meta[0].Key, "input is not reordered")
}

func TestSummarize(t *testing.T) {
	stats := decodeStats(t, `{
		"boolean_percentages": {"SystemStatusBits.AutoMode": 92.5},
		"float_averages": {"Floats.Performance.PartsPerMinute": 118.25},
		"fault_counts": {"FaultBits.Jam": 3, "FaultBits.Overheat": 0, "Other.Count": 10}
	}`)

	s := Summarize(stats, "Floats.Performance.PartsPerMinute", "SystemStatusBits.AutoMode")
	assert.Equal(t, HealthSummary{PartsPerMinute: 118.25, AutoMode: 92.5, TotalFaults: 3}, s)

	missing := Summarize(stats, "Floats.Missing.Field", "SystemStatusBits.Missing")
	assert.Zero(t, missing.PartsPerMinute)
	assert.Zero(t, missing.AutoMode)
	assert.Equal(t, 3.0, missing.TotalFaults)

	assert.Equal(t, HealthSummary{}, Summarize(nil, "a", "b"))
}

func TestFaultBars(t *testing.T) {
	t.Run("zero counts are dropped", func(t *testing.T) {
		stats := decodeStats(t, `{"fault_counts": {"FaultBits.JamInOrientation.Lane1": 5, "FaultBits.Overheat": 0}}`)

		bars := FaultBars(stats.FaultCounts)
		require.Len(t, bars, 1)
		assert.Equal(t, "Jam In Orientation - Lane1", bars[0].Label)
		assert.Equal(t, 5.0, bars[0].Count)
	})

	t.Run("largest first and only fault keys", func(t *testing.T) {
		stats := decodeStats(t, `{"fault_counts": {
			"FaultBits.A": 1, "FaultBits.B": 7, "Status.C": 9, "FaultBits.D": 7, "FaultBits.E": -2
		}}`)

		bars := FaultBars(stats.FaultCounts)
		var keys []string
		for _, b := range bars {
			keys = append(keys, b.Key)
		}
		assert.Equal(t, []string{"FaultBits.B", "FaultBits.D", "FaultBits.A"}, keys)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, FaultBars(nil))
	})
}

func TestFloatFields(t *testing.T) {
	stats := decodeStats(t, `{"float_averages": {
		"Floats.Performance.PartsPerMinute": 1,
		"Floats.Bad": 2,
		"Floats.AirTrackBlower.Speed": 3,
		"Other.AirTrackBlower.Speed": 4
	}}`)

	assert.Equal(t, []string{"Floats.Performance.PartsPerMinute", "Floats.AirTrackBlower.Speed"}, FloatFields(stats.FloatAverages))
}

func TestSortHelpers(t *testing.T) {
	values := fields.FromPairs(
		fields.Pair[float64]{Key: "b", Value: 1},
		fields.Pair[float64]{Key: "c", Value: 3},
		fields.Pair[float64]{Key: "a", Value: 2},
	)

	assert.Equal(t, []string{"c", "a", "b"}, sortedDesc(values).Keys())
	assert.Equal(t, []string{"a", "b", "c"}, sortedByKey(values).Keys())
	assert.Equal(t, []string{"b", "c", "a"}, values.Keys())
}

func TestPanelMessage(t *testing.T) {
	httpErr := vterrors.New(vterrors.ErrHTTP, "HTTP error! status: 502", "")

	tests := []struct {
		name    string
		loading bool
		err     error
		hasData bool
		want    string
	}{
		{"loading without data", true, nil, false, "Loading..."},
		{"refreshing with data", true, nil, true, ""},
		{"data", false, nil, true, ""},
		{"empty", false, nil, false, "No data available."},
		{"error wins over data", false, httpErr, true, "Error: HTTP error! status: 502"},
		{"plain error", true, errors.New("boom"), false, "Error: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := plain(panelMessage(tt.loading, tt.err, tt.hasData, textLoading, textNoData))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderFaults(t *testing.T) {
	t.Run("no faults", func(t *testing.T) {
		out := plain(renderFaults(nil, "Past 1 hour", 60))
		assert.Contains(t, out, "Fault Counts")
		assert.Contains(t, out, "Past 1 hour")
		assert.Contains(t, out, textNoFaults)
	})

	t.Run("long labels are truncated", func(t *testing.T) {
		bars := []FaultBar{
			{Key: "FaultBits.X", Label: strings.Repeat("Very Long Fault Name ", 5), Count: 12},
			{Key: "FaultBits.Y", Label: "Short", Count: 3},
		}
		out := plain(renderFaults(bars, "Past 1 hour", 40))

		assert.Contains(t, out, "…")
		assert.Contains(t, out, "Short")
		assert.Contains(t, out, "12")
		for _, line := range strings.Split(out, "\n") {
			assert.Equal(t, 40, runewidth.StringWidth(line), line)
		}
	})
}

func TestRowLine(t *testing.T) {
	line := plain(rowLine("Temperature", "35.00 °C", 30))
	assert.Equal(t, 30, runewidth.StringWidth(line))
	assert.True(t, strings.HasPrefix(line, "Temperature"))
	assert.True(t, strings.HasSuffix(line, "35.00 °C"))

	line = plain(rowLine("An Extremely Long Label For A Row", "1.0%", 20))
	assert.Equal(t, 20, runewidth.StringWidth(line))
	assert.Contains(t, line, "…")
}

func TestRenderProjectMeta(t *testing.T) {
	assert.Empty(t, renderProjectMeta(nil, 60))

	meta := fields.FromPairs(
		fields.Pair[string]{Key: "Output Power", Value: "5 kW"},
		fields.Pair[string]{Key: "Project Name", Value: "Line 4 Feeder"},
		fields.Pair[string]{Key: "Project Number", Value: "P-1009"},
	)
	out := plain(renderProjectMeta(meta, 60))

	assert.Contains(t, out, "Line 4 Feeder")
	assert.Less(t, strings.Index(out, "P-1009"), strings.Index(out, "5 kW"))

	out = plain(renderProjectMeta(fields.FromPairs(fields.Pair[string]{Key: "Site", Value: "North"}), 60))
	assert.Contains(t, out, "Project Information")
}

func TestRenderHealth(t *testing.T) {
	out := plain(renderHealth(HealthSummary{PartsPerMinute: 118.26, AutoMode: 92.54, TotalFaults: 4}, "Past 3 hours", 60))

	assert.Contains(t, out, "System Health Summary")
	assert.Contains(t, out, "Past 3 hours")
	assert.Contains(t, out, "118.3")
	assert.Contains(t, out, "92.5%")
	assert.Contains(t, out, "Total Faults")
	assert.Contains(t, out, "▰")
}

func TestAutoModeAndFaultColors(t *testing.T) {
	assert.Equal(t, ColorHealthy, AutoModeColor(90))
	assert.Equal(t, ColorWarning, AutoModeColor(89.9))
	assert.Equal(t, ColorHealthy, FaultColor(0))
	assert.Equal(t, ColorWarning, FaultColor(1))
}

func TestRenderSystemStatus(t *testing.T) {
	stats := decodeStats(t, `{
		"system_status": {"SystemStatusBits.AutoMode": true, "SystemStatusBits.EStop": false},
		"boolean_percentages": {
			"BowlFeeder.Running": 40,
			"BowlFeeder.LevelHigh": 95.26,
			"FaultBits.Jam": 10
		}
	}`)

	out := plain(renderSystemStatus(stats, 80))
	assert.Contains(t, out, "● AutoMode")
	assert.Contains(t, out, "● EStop")
	assert.Contains(t, out, "Bowl Feeder")
	assert.Less(t, strings.Index(out, "95.3%"), strings.Index(out, "40.0%"), "sorted descending")
	assert.NotContains(t, out, "Jam")

	assert.Empty(t, renderSystemStatus(&api.StatsResponse{}, 80))
}

func TestRenderFloatCards(t *testing.T) {
	stats := decodeStats(t, `{"float_averages": {
		"Floats.AirTrackBlower.Temperature": 35,
		"Floats.AirTrackBlower.Speed": 42.126,
		"Floats.Vibration.VibrationX": 0.5
	}}`)

	history := NewHistory(10)
	history.Push(stats.FloatAverages)
	history.Push(stats.FloatAverages)

	out := plain(renderFloatCards(stats.FloatAverages, fields.NewUnits(), history, 100))
	assert.Contains(t, out, "Air Track Blower")
	assert.Contains(t, out, "42.13 Hz")
	assert.Contains(t, out, "35.00 °C")
	assert.Contains(t, out, "0.50 mm/s²")
	assert.Less(t, strings.Index(out, "Speed"), strings.Index(out, "Temperature"), "sub-fields sorted by name")

	assert.Empty(t, renderFloatCards(nil, fields.NewUnits(), history, 100))
}

func TestLayoutCards(t *testing.T) {
	assert.Empty(t, layoutCards(nil, 100))

	cards := []string{"a", "b", "c"}
	assert.Equal(t, 3, len(strings.Split(layoutCards(cards, 0), "\n")))
	assert.Equal(t, 1, len(strings.Split(layoutCards(cards, BreakpointWide), "\n")))
}
