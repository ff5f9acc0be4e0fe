package timerange

import (
	"strings"
	"time"
)

// dateLayouts are tried in order for absolute dates. Layouts without a
// zone are read in the caller's location; a bare date is read as UTC.
var dateLayouts = []struct {
	layout string
	utc    bool
}{
	{time.RFC3339Nano, false},
	{time.RFC3339, false},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02T15:04", false},
	{"2006-01-02 15:04:05", false},
	{"2006-01-02 15:04", false},
	{"2006-01-02", true},
	{"Jan 2, 2006", false},
	{"January 2, 2006", false},
	{"2006/01/02", false},
}

// ParseDate parses an absolute date string. ok is false when no supported
// layout matches.
func ParseDate(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, l := range dateLayouts {
		in := loc
		if l.utc {
			in = time.UTC
		}
		if t, err := time.ParseInLocation(l.layout, value, in); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ToAPIValue normalizes a user-supplied time for the API: relative values
// and now() pass through, parsable dates become RFC 3339 UTC, anything
// else is returned unchanged.
func ToAPIValue(value string) string {
	if value == Now || IsRelative(value) {
		return value
	}
	if t, ok := ParseDate(value, time.Local); ok {
		return t.UTC().Format(time.RFC3339)
	}
	return value
}

// IsMultiDay guesses whether a start spans days, for axis labelling.
func IsMultiDay(start string) bool {
	return strings.Contains(start, "d") || strings.Contains(start, "w") || strings.Contains(start, "mo")
}

// FormatTick formats a chart axis tick: "15:04" within a day, "Jan 02"
// across days.
func FormatTick(t time.Time, multiDay bool) string {
	if multiDay {
		return t.Format("Jan 02")
	}
	return t.Format("15:04")
}

// FormatTimestamp formats a single sample time, e.g. "Jan 02, 15:04:05".
func FormatTimestamp(t time.Time) string {
	return t.Format("Jan 02, 15:04:05")
}
