package timerange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vtarchitect/vtconsole/internal/errors"
)

var fixedNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func TestDescribeAt_RelativeLabels(t *testing.T) {
	tests := []struct {
		start    string
		label    string
		duration string
	}{
		{"-3h", "Past 3 hours", "3h 0m"},
		{"-1h", "Past 1 hour", "1h 0m"},
		{"-90m", "Past 90 minutes", "1h 30m"},
		{"-45s", "Past 45 seconds", "0h 0m"},
		{"-1d", "Past 1 day", "24h 0m"},
		{"-2w", "Past 2 weeks", "336h 0m"},
		{"-1mo", "Past 1 month", "720h 0m"},
		{"-0h", "Past 0 hour", "0h 0m"},
		{"-01h", "Past 01 hour", "1h 0m"},
	}

	for _, tt := range tests {
		t.Run(tt.start, func(t *testing.T) {
			d := DescribeAt(tt.start, Now, fixedNow)
			assert.Equal(t, tt.label, d.Label)
			assert.Equal(t, tt.duration, d.Duration)
		})
	}
}

func TestDescribeAt_AbsoluteLabels(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		stop     string
		label    string
		duration string
	}{
		{
			name:     "absolute start up to now",
			start:    "2026-10-17T00:00:00Z",
			stop:     Now,
			label:    "Up to Oct 18, 2026",
			duration: "36h 0m",
		},
		{
			name:     "same calendar day",
			start:    "2026-10-10T08:00:00Z",
			stop:     "2026-10-10T17:30:00Z",
			label:    "Oct 10, 2026",
			duration: "9h 30m",
		},
		{
			name:     "spanning days",
			start:    "2026-10-01T00:00:00Z",
			stop:     "2026-10-03T06:00:00Z",
			label:    "Oct 1, 2026 to Oct 3, 2026",
			duration: "54h 0m",
		},
		{
			name:     "relative start ignores absolute stop",
			start:    "-1h",
			stop:     "2026-10-18T10:00:00Z",
			label:    "Oct 18, 2026",
			duration: "-1h 0m",
		},
		{
			name:     "bare now is not the label sentinel",
			start:    "-1h",
			stop:     "now",
			label:    "Oct 18, 2026",
			duration: "1h 0m",
		},
		{
			name:     "unparseable start",
			start:    "yesterday-ish",
			stop:     "2026-10-03T06:00:00Z",
			label:    "Invalid Date to Oct 3, 2026",
			duration: "NaNh NaNm",
		},
		{
			name:     "unparseable start up to now",
			start:    "yesterday-ish",
			stop:     Now,
			label:    "Up to Oct 18, 2026",
			duration: "NaNh NaNm",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DescribeAt(tt.start, tt.stop, fixedNow)
			assert.Equal(t, tt.label, d.Label)
			assert.Equal(t, tt.duration, d.Duration)
		})
	}
}

func TestResolve_CalendarMonths(t *testing.T) {
	endOfMonth := time.Date(2026, 3, 31, 9, 0, 0, 0, time.UTC)

	got, ok := Resolve("-1mo", endOfMonth)
	require.True(t, ok)
	// February has no 31st; the date normalizes into March.
	assert.Equal(t, time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC), got)

	got, ok = Resolve("-1w", endOfMonth)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 3, 24, 9, 0, 0, 0, time.UTC), got)
}

func TestResolve_Now(t *testing.T) {
	for _, v := range []string{"now()", "now"} {
		got, ok := Resolve(v, fixedNow)
		assert.True(t, ok)
		assert.Equal(t, fixedNow, got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0h 0m"},
		{59 * time.Second, "0h 0m"},
		{90 * time.Minute, "1h 30m"},
		{25*time.Hour + 59*time.Minute + 59*time.Second, "25h 59m"},
		{-90 * time.Minute, "-2h -30m"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.d))
		})
	}
}

func TestIsRelative(t *testing.T) {
	for _, v := range []string{"-1h", "-30s", "-15m", "-7d", "-2w", "-3mo"} {
		assert.True(t, IsRelative(v), v)
	}
	for _, v := range []string{"1h", "-1y", "-h", "now()", "-1.5h", "-1H", ""} {
		assert.False(t, IsRelative(v), v)
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("-1h", Now))
	assert.NoError(t, Validate("2026-10-01T00:00:00Z", "2026-10-02"))

	err := Validate("last tuesday", Now)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrRange))
	assert.Contains(t, err.Error(), "last tuesday")

	err = Validate("-1h", "later")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stop")
}

func TestToAPIValue(t *testing.T) {
	assert.Equal(t, "-1h", ToAPIValue("-1h"))
	assert.Equal(t, "-1mo", ToAPIValue("-1mo"))
	assert.Equal(t, "now()", ToAPIValue("now()"))
	assert.Equal(t, "2026-10-18T10:00:00Z", ToAPIValue("2026-10-18T12:00:00+02:00"))
	assert.Equal(t, "2026-10-18T00:00:00Z", ToAPIValue("2026-10-18"))
	assert.Equal(t, "whenever", ToAPIValue("whenever"))
}

func TestFormatTick(t *testing.T) {
	ts := time.Date(2026, 10, 18, 7, 5, 9, 0, time.UTC)
	assert.Equal(t, "07:05", FormatTick(ts, false))
	assert.Equal(t, "Oct 18", FormatTick(ts, true))
	assert.Equal(t, "Oct 18, 07:05:09", FormatTimestamp(ts))

	assert.True(t, IsMultiDay("-3d"))
	assert.True(t, IsMultiDay("-1mo"))
	assert.False(t, IsMultiDay("-6h"))
}

func TestStepPreset(t *testing.T) {
	assert.Equal(t, Range{Start: "-3h", Stop: Now}, StepPreset("-1h", 1))
	assert.Equal(t, Range{Start: "-1mo", Stop: Now}, StepPreset("-1h", -1))
	assert.Equal(t, Range{Start: "-1h", Stop: Now}, StepPreset("-1mo", 1))
	assert.Equal(t, Range{Start: "-1h", Stop: Now}, StepPreset("-5m", 1))
	assert.Equal(t, 4, PresetIndex("-1d"))
	assert.Equal(t, -1, PresetIndex("-5m"))
}

func TestDefault(t *testing.T) {
	r := Default()
	assert.Equal(t, "-1h", r.Start)
	assert.Equal(t, Now, r.Stop)
	assert.Equal(t, "-1h..now()", r.String())
}

func TestResolve_LongClockSpans(t *testing.T) {
	tests := []struct {
		start string
		want  time.Time
	}{
		{"-2562047h", fixedNow.Add(-2562047 * time.Hour)},
		{"-2562048h", fixedNow.AddDate(0, 0, -106752)},
		{"-3000000h", fixedNow.AddDate(0, 0, -125000)},
		{"-10000000000s", fixedNow.AddDate(0, 0, -115740).Add(-64000 * time.Second)},
	}

	for _, tt := range tests {
		t.Run(tt.start, func(t *testing.T) {
			got, ok := Resolve(tt.start, fixedNow)
			require.True(t, ok)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
			assert.True(t, got.Before(fixedNow))
		})
	}
}

func TestDescribeAt_LongRanges(t *testing.T) {
	tests := []struct {
		start    string
		label    string
		duration string
	}{
		{"-3000000h", "Past 3000000 hours", "3000000h 0m"},
		{"-10000000000s", "Past 10000000000 seconds", "2777777h 46m"},
		{"-2400000001h", "Past 2400000001 hours", "NaNh NaNm"},
		{"-99999999999999999999h", "Past 99999999999999999999 hours", "NaNh NaNm"},
		{"-0001h", "Past 0001 hour", "1h 0m"},
		{"-000h", "Past 000 hour", "0h 0m"},
	}

	for _, tt := range tests {
		t.Run(tt.start, func(t *testing.T) {
			d := DescribeAt(tt.start, Now, fixedNow)
			assert.Equal(t, tt.label, d.Label)
			assert.Equal(t, tt.duration, d.Duration)
		})
	}
}

func TestValidate_RelativeLimits(t *testing.T) {
	assert.NoError(t, Validate("-3000000h", Now))
	assert.NoError(t, Validate("-100000000d", Now))

	for _, start := range []string{"-100000001d", "-2400000001h", "-99999999999999999999h", "-3300000mo"} {
		err := Validate(start, Now)
		require.Error(t, err, start)
		assert.True(t, errors.IsCode(err, errors.ErrRange))
	}
}
