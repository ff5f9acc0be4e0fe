package cli

import (
	"fmt"
	"io"

	"github.com/vtarchitect/vtconsole/internal/fields"
	"github.com/vtarchitect/vtconsole/internal/ui"
)

// UnitEntry is one row of the units listing.
type UnitEntry struct {
	Leaf string `json:"leaf"`
	Unit string `json:"unit"`
}

// vibrationLeaves stands in for the VibrationX/Y/Z pattern in listings.
const vibrationLeaves = "Vibration[XYZ]"

// unitsCommand lists the unit table, configured entries included.
func unitsCommand(w io.Writer, units *fields.Units, asJSON bool) error {
	var entries []UnitEntry
	for _, p := range units.Entries() {
		entries = append(entries, UnitEntry{Leaf: p.Key, Unit: p.Value})
	}
	entries = append(entries, UnitEntry{Leaf: vibrationLeaves, Unit: fields.VibrationUnit})

	if asJSON {
		return WriteJSONSuccess(w, entries)
	}

	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.Leaf, e.Unit}
	}
	fmt.Fprintln(w, ui.RenderSimpleTable([]ui.TableColumn{
		{Title: "Leaf", Width: 24},
		{Title: "Unit", Width: 8},
	}, rows))
	return nil
}
