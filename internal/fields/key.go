// Package fields parses the dotted field identifiers reported by the
// statistics API ("Floats.AirTrackBlower.Speed", "FaultBits.JamInOrientation")
// and turns flat key/value maps into ordered display sections.
//
// A key is split on "." into a group, a field, and an optional subgroup:
//
//	Temperature                       field only
//	SystemStatusBits.AirPressureOk    group + field
//	FaultBits.JamInOrientation.Lane1  group + field + subgroup
//
// Everything after the second dot is kept together as the subgroup, so
// "a.b.c.d" has subgroup "c.d".
package fields

import (
	"regexp"
	"strings"
)

// Separator splits a key into segments.
const Separator = "."

// ParsedKey is the structured form of a dotted field key.
// A zero-length group or subgroup is distinct from an absent one: ".x" has
// an empty group, "x" has none.
type ParsedKey struct {
	Raw      string
	Group    string
	Field    string
	Subgroup string

	hasGroup    bool
	hasSubgroup bool
}

// HasGroup reports whether the key had a group segment.
func (k ParsedKey) HasGroup() bool { return k.hasGroup }

// HasSubgroup reports whether the key had three or more segments.
func (k ParsedKey) HasSubgroup() bool { return k.hasSubgroup }

// Leaf returns the most specific segment: the subgroup when present, the
// field otherwise.
func (k ParsedKey) Leaf() string {
	if k.Subgroup != "" {
		return k.Subgroup
	}
	return k.Field
}

// Join rebuilds a dotted key from the present segments.
func (k ParsedKey) Join() string {
	parts := make([]string, 0, 3)
	if k.hasGroup {
		parts = append(parts, k.Group)
	}
	parts = append(parts, k.Field)
	if k.hasSubgroup {
		parts = append(parts, k.Subgroup)
	}
	return strings.Join(parts, Separator)
}

// ParseKey splits a raw key into its group, field, and subgroup.
// It never fails; the empty string parses to an empty field.
func ParseKey(key string) ParsedKey {
	parts := strings.Split(key, Separator)
	switch len(parts) {
	case 1:
		return ParsedKey{Raw: key, Field: parts[0]}
	case 2:
		return ParsedKey{Raw: key, Group: parts[0], Field: parts[1], hasGroup: true}
	default:
		return ParsedKey{
			Raw:         key,
			Group:       parts[0],
			Field:       parts[1],
			Subgroup:    strings.Join(parts[2:], Separator),
			hasGroup:    true,
			hasSubgroup: true,
		}
	}
}

// skippedGroups are group prefixes that add nothing to a label.
var skippedGroups = map[string]bool{
	"FaultBits":        true,
	"SystemStatusBits": true,
	"StatusBits":       true,
}

var camelBoundary = regexp.MustCompile(`([a-z])([A-Z])`)

// FormatSegment makes a single key segment readable: "PartsPerMinute"
// becomes "Parts Per Minute" and underscores become spaces.
func FormatSegment(segment string) string {
	if segment == "" {
		return ""
	}
	s := camelBoundary.ReplaceAllString(segment, "$1 $2")
	return strings.ReplaceAll(s, "_", " ")
}

// FormatKey formats a whole key for table rows: camel case is split and
// every dot becomes " - ".
func FormatKey(key string) string {
	s := camelBoundary.ReplaceAllString(key, "$1 $2")
	s = strings.ReplaceAll(s, Separator, " - ")
	return strings.ReplaceAll(s, "_", " ")
}

// Label returns the display label for a key, e.g.
// "Floats.AirTrackBlower.Speed" -> "Floats - Air Track Blower - Speed".
// Noise groups such as FaultBits are omitted.
func Label(key string) string {
	return LabelOf(ParseKey(key))
}

// LabelOf is Label for an already parsed key.
func LabelOf(k ParsedKey) string {
	group := ""
	if k.hasGroup && !skippedGroups[k.Group] {
		group = FormatSegment(k.Group)
	}
	return joinNonEmpty(group, FormatSegment(k.Field), FormatSegment(k.Subgroup))
}

// GroupLabel returns the formatted group segment, or "" without one.
func GroupLabel(key string) string {
	return FormatSegment(ParseKey(key).Group)
}

// FieldLabel returns the formatted field and subgroup, e.g.
// "Floats.AirTrackBlower.Speed" -> "Air Track Blower - Speed".
func FieldLabel(key string) string {
	k := ParseKey(key)
	return joinNonEmpty(FormatSegment(k.Field), FormatSegment(k.Subgroup))
}

// LeafKey returns the last dot segment of key.
func LeafKey(key string) string {
	i := strings.LastIndex(key, Separator)
	if i < 0 || i == len(key)-1 {
		return key
	}
	return key[i+1:]
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " - ")
}
