// Package timerange resolves and describes the start/stop pairs the
// statistics API accepts.
//
// A start is either relative ("-3h", "-2d", "-1mo") or an absolute date.
// A stop is the sentinel "now()" or an absolute date. Relative starts are
// always measured back from the current time, even when stop is absolute.
package timerange

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/vtarchitect/vtconsole/internal/errors"
)

// Now is the stop sentinel understood by the API.
const Now = "now()"

// Defaults used when a range is not configured.
const (
	DefaultStart = "-1h"
	DefaultStop  = Now
)

// dateLayout renders calendar days in labels ("Jan 2, 2006").
const dateLayout = "Jan 2, 2006"

// InvalidDate is rendered in place of a date that could not be parsed.
const InvalidDate = "Invalid Date"

var relativePattern = regexp.MustCompile(`^-(\d+)(s|m|h|d|w|mo)$`)

// maxRelativeDays bounds how far back a relative start may reach, about
// 270,000 years. Larger amounts do not resolve.
const maxRelativeDays = 100_000_000

var relativeLimits = map[string]int64{
	"s":  maxRelativeDays * 86400,
	"m":  maxRelativeDays * 1440,
	"h":  maxRelativeDays * 24,
	"d":  maxRelativeDays,
	"w":  maxRelativeDays / 7,
	"mo": maxRelativeDays / 31,
}

var unitNames = map[string]string{
	"s":  "second",
	"m":  "minute",
	"h":  "hour",
	"d":  "day",
	"w":  "week",
	"mo": "month",
}

// Range is a start/stop pair as sent to the API.
type Range struct {
	Start string `json:"start"`
	Stop  string `json:"stop"`
}

// Default returns the one-hour range ending now.
func Default() Range {
	return Range{Start: DefaultStart, Stop: DefaultStop}
}

// String formats the range for logs.
func (r Range) String() string {
	return r.Start + ".." + r.Stop
}

// Description is the human-readable form of a range.
type Description struct {
	Label    string `json:"label"`
	Duration string `json:"duration"`
}

// Describe labels a range relative to the current time.
func Describe(start, stop string) Description {
	return DescribeAt(start, stop, time.Now())
}

// DescribeAt labels a range relative to now.
//
// Unparseable absolute dates are not reported: they render as
// "Invalid Date" and the duration as "NaNh NaNm". Use Validate to reject
// them up front.
func DescribeAt(start, stop string, now time.Time) Description {
	s, sOK := resolve(start, now)
	e, eOK := resolve(stop, now)

	sStr := formatDate(s, sOK, now.Location())
	eStr := formatDate(e, eOK, now.Location())

	duration := "NaNh NaNm"
	if sOK && eOK {
		duration = formatMillis(e.UnixMilli() - s.UnixMilli())
	}

	var label string
	switch {
	case stop == Now:
		if n, unit, ok := splitRelative(start); ok {
			label = pastLabel(n, unit)
		} else {
			label = "Up to " + eStr
		}
	case sStr == eStr:
		label = sStr
	default:
		label = sStr + " to " + eStr
	}

	return Description{Label: label, Duration: duration}
}

// Resolve converts a start or stop value to an instant relative to now.
// ok is false for values that are neither relative, "now", nor a date.
func Resolve(value string, now time.Time) (t time.Time, ok bool) {
	return resolve(value, now)
}

func resolve(value string, now time.Time) (time.Time, bool) {
	if value == Now || value == "now" {
		return now, true
	}

	m := relativePattern.FindStringSubmatch(value)
	if m == nil {
		return ParseDate(value, now.Location())
	}

	amount, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || amount > relativeLimits[m[2]] {
		return time.Time{}, false
	}

	switch m[2] {
	case "s":
		return subtractClock(now, amount, time.Second), true
	case "m":
		return subtractClock(now, amount, time.Minute), true
	case "h":
		return subtractClock(now, amount, time.Hour), true
	case "d":
		return now.AddDate(0, 0, -int(amount)), true
	case "w":
		return now.AddDate(0, 0, -int(amount)*7), true
	default: // mo
		return now.AddDate(0, -int(amount), 0), true
	}
}

// subtractClock moves now back by amount units. Spans too long for a
// time.Duration are taken in whole UTC days first.
func subtractClock(now time.Time, amount int64, unit time.Duration) time.Time {
	if amount <= math.MaxInt64/int64(unit) {
		return now.Add(-time.Duration(amount) * unit)
	}
	perDay := int64(24 * time.Hour / unit)
	days, rem := amount/perDay, amount%perDay
	back := now.UTC().AddDate(0, 0, -int(days)).Add(-time.Duration(rem) * unit)
	return back.In(now.Location())
}

// IsRelative reports whether value uses the "-<N><unit>" grammar.
func IsRelative(value string) bool {
	return relativePattern.MatchString(value)
}

// splitRelative returns the amount as written and the unit suffix.
func splitRelative(value string) (string, string, bool) {
	m := relativePattern.FindStringSubmatch(value)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

func pastLabel(n, unit string) string {
	name := unitNames[unit]
	if count := strings.TrimLeft(n, "0"); count != "" && count != "1" {
		name += "s"
	}
	return fmt.Sprintf("Past %s %s", n, name)
}

func formatDate(t time.Time, ok bool, loc *time.Location) string {
	if !ok {
		return InvalidDate
	}
	return t.In(loc).Format(dateLayout)
}

// FormatDuration renders d as whole hours and remaining minutes, e.g.
// "3h 0m". Both parts are floored, so negative spans stay negative.
func FormatDuration(d time.Duration) string {
	return formatMillis(d.Milliseconds())
}

func formatMillis(ms int64) string {
	h := floorDiv(ms, int64(time.Hour/time.Millisecond))
	m := floorDiv(ms%int64(time.Hour/time.Millisecond), int64(time.Minute/time.Millisecond))
	return fmt.Sprintf("%dh %dm", h, m)
}

func floorDiv(a, b int64) int64 {
	return int64(math.Floor(float64(a) / float64(b)))
}

// Validate rejects start/stop values the API would not understand.
func Validate(start, stop string) error {
	now := time.Now()
	if _, ok := resolve(start, now); !ok {
		return errors.New(errors.ErrRange,
			fmt.Sprintf("'%s' is not a valid start time", start),
			"Use a relative value like -1h, -3d, -1mo or an RFC 3339 timestamp.")
	}
	if _, ok := resolve(stop, now); !ok {
		return errors.New(errors.ErrRange,
			fmt.Sprintf("'%s' is not a valid stop time", stop),
			"Use now() or an RFC 3339 timestamp.")
	}
	return nil
}
