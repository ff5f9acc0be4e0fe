package fields

import "strings"

// Section is one display group: every key sharing a section segment.
type Section struct {
	Key    string
	Title  string
	Values Map[float64]
}

// Sections is an ordered list of sections. Order follows the first
// appearance of each section key in the input map.
type Sections []Section

// Get returns the section with the given key.
func (s Sections) Get(key string) (Section, bool) {
	for _, sec := range s {
		if sec.Key == key {
			return sec, true
		}
	}
	return Section{}, false
}

// Flatten rebuilds the flat map the sections were grouped from, using the
// rule's key layout.
func (s Sections) Flatten(rule Rule) Map[float64] {
	var out Map[float64]
	for _, sec := range s {
		for _, p := range sec.Values {
			out.Set(rule.Join(sec.Key, p.Key), p.Value)
		}
	}
	return out
}

// Rule decides how a flat key maps onto a section and sub-field.
type Rule interface {
	// Split returns the section key and sub-field for key, or ok=false if
	// the key does not belong in any section.
	Split(key string) (section, sub string, ok bool)
	// Join is the inverse of Split.
	Join(section, sub string) string
}

// BooleanRule groups keys with at least two segments by their first
// segment. Keys starting with Exclude are skipped; faults have their own
// panel.
type BooleanRule struct {
	Exclude string
}

// DefaultBooleanRule excludes FaultBits.* keys.
var DefaultBooleanRule = BooleanRule{Exclude: "FaultBits."}

func (r BooleanRule) Split(key string) (string, string, bool) {
	if r.Exclude != "" && strings.HasPrefix(key, r.Exclude) {
		return "", "", false
	}
	parts := strings.Split(key, Separator)
	if len(parts) < 2 {
		return "", "", false
	}
	return parts[0], strings.Join(parts[1:], Separator), true
}

func (r BooleanRule) Join(section, sub string) string {
	return section + Separator + sub
}

// FloatsPrefix is the fixed first segment of float average keys.
const FloatsPrefix = "Floats"

// FloatRule groups "Floats.<Section>.<Field>" keys by <Section>. Keys with
// any other shape are skipped.
type FloatRule struct{}

func (FloatRule) Split(key string) (string, string, bool) {
	parts := strings.Split(key, Separator)
	if len(parts) != 3 || parts[0] != FloatsPrefix {
		return "", "", false
	}
	return parts[1], parts[2], true
}

func (FloatRule) Join(section, sub string) string {
	return FloatsPrefix + Separator + section + Separator + sub
}

// Group buckets values into sections according to rule. Keys the rule
// rejects are dropped silently. Section titles are FormatSegment of the
// section key.
func Group(values Map[float64], rule Rule) Sections {
	var out Sections
	index := make(map[string]int)

	for _, p := range values {
		section, sub, ok := rule.Split(p.Key)
		if !ok {
			continue
		}
		i, seen := index[section]
		if !seen {
			i = len(out)
			index[section] = i
			out = append(out, Section{Key: section, Title: FormatSegment(section)})
		}
		out[i].Values.Set(sub, p.Value)
	}

	return out
}

// GroupBooleans groups boolean percentages with DefaultBooleanRule.
func GroupBooleans(values Map[float64]) Sections {
	return Group(values, DefaultBooleanRule)
}

// GroupFloats groups float averages with FloatRule.
func GroupFloats(values Map[float64]) Sections {
	return Group(values, FloatRule{})
}
