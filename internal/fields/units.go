package fields

import (
	"regexp"
	"sort"
	"sync"
)

// vibrationLeaf matches the per-axis vibration fields.
var vibrationLeaf = regexp.MustCompile(`^Vibration[XYZ]$`)

// VibrationUnit is the unit reported for VibrationX/Y/Z leaves.
const VibrationUnit = "mm/s²"

// Units maps leaf segments to measurement units. Lookup is exact-match on
// the leaf; there is no inference from values.
type Units struct {
	mu    sync.RWMutex
	table map[string]string
}

// NewUnits returns a unit table seeded with the built-in entries.
func NewUnits() *Units {
	return &Units{
		table: map[string]string{
			"Temperature":    "°C",
			"Speed":          "Hz",
			"PartsPerMinute": "PPM",
		},
	}
}

// Register adds or replaces the unit for a leaf segment.
func (u *Units) Register(leaf, unit string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.table[leaf] = unit
}

// RegisterAll registers every entry of m.
func (u *Units) RegisterAll(m map[string]string) {
	for leaf, unit := range m {
		u.Register(leaf, unit)
	}
}

// Entries returns the table sorted by leaf. The vibration pattern is not
// included.
func (u *Units) Entries() Map[string] {
	u.mu.RLock()
	defer u.mu.RUnlock()

	leaves := make([]string, 0, len(u.table))
	for leaf := range u.table {
		leaves = append(leaves, leaf)
	}
	sort.Strings(leaves)

	out := make(Map[string], len(leaves))
	for i, leaf := range leaves {
		out[i] = Pair[string]{Key: leaf, Value: u.table[leaf]}
	}
	return out
}

// For returns the unit for key, or "" when the leaf is unknown.
func (u *Units) For(key string) string {
	return u.ForParsed(ParseKey(key))
}

// ForParsed is For for an already parsed key.
func (u *Units) ForParsed(k ParsedKey) string {
	leaf := k.Leaf()
	if vibrationLeaf.MatchString(leaf) {
		return VibrationUnit
	}

	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.table[leaf]
}

// DefaultUnits is the process-wide unit table. Config entries are added to
// it at startup.
var DefaultUnits = NewUnits()

// Unit returns the unit for key from DefaultUnits.
func Unit(key string) string {
	return DefaultUnits.For(key)
}
