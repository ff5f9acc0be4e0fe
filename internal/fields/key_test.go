package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		name        string
		key         string
		group       string
		field       string
		subgroup    string
		hasGroup    bool
		hasSubgroup bool
	}{
		{"empty", "", "", "", "", false, false},
		{"field only", "Temperature", "", "Temperature", "", false, false},
		{"group and field", "SystemStatusBits.AirPressureOk", "SystemStatusBits", "AirPressureOk", "", true, false},
		{"three parts", "Floats.AirTrackBlower.Speed", "Floats", "AirTrackBlower", "Speed", true, true},
		{"four parts keep tail together", "FaultBits.Jam.Lane1.Left", "FaultBits", "Jam", "Lane1.Left", true, true},
		{"empty group segment", ".x", "", "x", "", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := ParseKey(tt.key)
			assert.Equal(t, tt.key, k.Raw)
			assert.Equal(t, tt.group, k.Group)
			assert.Equal(t, tt.field, k.Field)
			assert.Equal(t, tt.subgroup, k.Subgroup)
			assert.Equal(t, tt.hasGroup, k.HasGroup())
			assert.Equal(t, tt.hasSubgroup, k.HasSubgroup())
		})
	}
}

func TestParsedKey_JoinRoundTrip(t *testing.T) {
	keys := []string{
		"",
		"Temperature",
		"SystemStatusBits.AirPressureOk",
		"Floats.AirTrackBlower.Speed",
		".x",
		"a.",
		"a..b",
		"..",
	}

	for _, key := range keys {
		t.Run(key, func(t *testing.T) {
			assert.Equal(t, key, ParseKey(key).Join())
		})
	}
}

func TestFormatSegment(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"PartsPerMinute", "Parts Per Minute"},
		{"AirTrackBlower", "Air Track Blower"},
		{"Lane_1", "Lane 1"},
		{"PLCStatus", "PLCStatus"},
		{"motorRPM", "motor RPM"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSegment(tt.in))
		})
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"FaultBits.JamInOrientation", "Jam In Orientation"},
		{"FaultBits.JamInOrientation.Lane1", "Jam In Orientation - Lane1"},
		{"SystemStatusBits.AirPressureOk", "Air Pressure Ok"},
		{"StatusBits.AutoMode", "Auto Mode"},
		{"Floats.AirTrackBlower.Speed", "Floats - Air Track Blower - Speed"},
		{"Temperature", "Temperature"},
		{"", ""},
		{".x", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, Label(tt.key))
		})
	}
}

func TestGroupAndFieldLabel(t *testing.T) {
	assert.Equal(t, "Floats", GroupLabel("Floats.AirTrackBlower.Speed"))
	assert.Equal(t, "", GroupLabel("Temperature"))
	assert.Equal(t, "Air Track Blower - Speed", FieldLabel("Floats.AirTrackBlower.Speed"))
	assert.Equal(t, "Air Pressure Ok", FieldLabel("SystemStatusBits.AirPressureOk"))
}

func TestFormatKey(t *testing.T) {
	assert.Equal(t, "BMS - Cell Voltage", FormatKey("BMS.CellVoltage"))
	assert.Equal(t, "Air Pressure Ok", FormatKey("AirPressureOk"))
	assert.Equal(t, "Lane 1", FormatKey("Lane_1"))
}

func TestLeafKey(t *testing.T) {
	assert.Equal(t, "Speed", LeafKey("Floats.AirTrackBlower.Speed"))
	assert.Equal(t, "Temperature", LeafKey("Temperature"))
	assert.Equal(t, "a.", LeafKey("a."))
}
