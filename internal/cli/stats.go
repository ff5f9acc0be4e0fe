package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/vtarchitect/vtconsole/internal/api"
	"github.com/vtarchitect/vtconsole/internal/fields"
	"github.com/vtarchitect/vtconsole/internal/monitor"
	"github.com/vtarchitect/vtconsole/internal/timerange"
	"github.com/vtarchitect/vtconsole/internal/ui"
)

// StatsOptions configures the stats command.
type StatsOptions struct {
	Range timerange.Range

	// Percentages also fetches /api/percentages.
	Percentages bool

	PartsPerMinuteField string
	AutoModeField       string
	Units               *fields.Units

	JSON bool
	// Progress receives the spinner. Nil disables it.
	Progress io.Writer
}

// StatsOutput is the --json form of the stats command.
type StatsOutput struct {
	Range       timerange.Range       `json:"range"`
	Label       string                `json:"label"`
	Duration    string                `json:"duration"`
	Health      monitor.HealthSummary `json:"health"`
	Stats       *api.StatsResponse    `json:"stats"`
	Percentages fields.Map[float64]   `json:"percentages,omitempty"`
}

// statsCommand fetches one aggregate snapshot and prints it.
func statsCommand(ctx context.Context, w io.Writer, client *api.Client, opts StatsOptions) error {
	if opts.Units == nil {
		opts.Units = fields.DefaultUnits
	}

	var spinner *ui.Spinner
	if opts.Progress != nil && !opts.JSON {
		spinner = ui.NewSpinner("Fetching statistics")
		spinner.SetOutput(opts.Progress, opts.Progress == os.Stderr && ui.IsTerminal(os.Stderr))
		spinner.Start()
	}

	stats, err := client.Stats(ctx, opts.Range)
	var pct fields.Map[float64]
	if err == nil && opts.Percentages {
		pct, err = client.Percentages(ctx, opts.Range)
	}

	if spinner != nil {
		if err != nil {
			spinner.Fail("")
		} else {
			spinner.Success("")
		}
	}
	if err != nil {
		return err
	}

	desc := timerange.Describe(opts.Range.Start, opts.Range.Stop)
	health := monitor.Summarize(stats, opts.PartsPerMinuteField, opts.AutoModeField)

	if opts.JSON {
		return WriteJSONSuccess(w, StatsOutput{
			Range:       opts.Range,
			Label:       desc.Label,
			Duration:    desc.Duration,
			Health:      health,
			Stats:       stats,
			Percentages: pct,
		})
	}

	fmt.Fprint(w, ui.RenderHeader(ui.HeaderInfo{
		Title:    "vtconsole",
		Range:    desc.Label,
		Duration: desc.Duration,
		Source:   client.BaseURL(),
	}))
	fmt.Fprintln(w)

	if stats.Empty() {
		fmt.Fprintln(w, ui.MutedStyle().Render("No data available."))
		return nil
	}

	fmt.Fprint(w, renderStatsText(stats, health, pct, opts.Units))
	return nil
}

// renderStatsText lays the snapshot out as sections and tables.
func renderStatsText(stats *api.StatsResponse, health monitor.HealthSummary, pct fields.Map[float64], units *fields.Units) string {
	var out string

	var sections []ui.Section
	if len(stats.ProjectMeta) > 0 {
		meta := ui.Section{Title: "Project"}
		for _, p := range monitor.SortProjectMeta(stats.ProjectMeta) {
			meta.Rows = append(meta.Rows, ui.Row{Label: p.Key, Value: p.Value})
		}
		sections = append(sections, meta)
	}
	sections = append(sections, ui.Section{
		Title: "Health",
		Rows: []ui.Row{
			{Label: "Avg. Parts Per Minute", Value: fmt.Sprintf("%.1f", health.PartsPerMinute)},
			{Label: "Auto Mode", Value: ui.RenderBar(health.AutoMode, ui.DefaultBarConfig(20))},
			{Label: "Total Faults", Value: fmt.Sprintf("%.0f", health.TotalFaults)},
		},
	})
	for _, sec := range fields.GroupBooleans(stats.BooleanPercentages) {
		s := ui.Section{Title: sec.Title}
		for _, p := range sec.Values {
			s.Rows = append(s.Rows, ui.Row{Label: fields.FormatKey(p.Key), Value: fmt.Sprintf("%.1f%%", p.Value)})
		}
		sections = append(sections, s)
	}
	out += ui.RenderSections(sections)

	if len(stats.SystemStatus) > 0 {
		items := make([]ui.Indicator, 0, len(stats.SystemStatus))
		for _, p := range stats.SystemStatus {
			items = append(items, ui.Indicator{Label: fields.Label(p.Key), On: p.Value})
		}
		out += "Live Status\n" + ui.RenderIndicators(items) + "\n"
	}

	if rows := floatRows(stats.FloatAverages, units); len(rows) > 0 {
		out += ui.RenderSimpleTable([]ui.TableColumn{
			{Title: "Section", Width: 20},
			{Title: "Field", Width: 20},
			{Title: "Average", Width: 12},
			{Title: "Unit", Width: 6},
		}, rows) + "\n\n"
	}

	if bars := monitor.FaultBars(stats.FaultCounts); len(bars) > 0 {
		rows := make([][]string, len(bars))
		for i, b := range bars {
			rows[i] = []string{b.Label, fmt.Sprintf("%.0f", b.Count)}
		}
		out += ui.RenderSimpleTable([]ui.TableColumn{
			{Title: "Fault", Width: 36},
			{Title: "Count", Width: 8},
		}, rows) + "\n\n"
	}

	if len(pct) > 0 {
		rows := make([][]string, len(pct))
		for i, p := range pct {
			rows[i] = []string{fields.FormatKey(p.Key), fmt.Sprintf("%.1f%%", p.Value)}
		}
		out += ui.RenderSimpleTable([]ui.TableColumn{
			{Title: "Status", Width: 36},
			{Title: "Share", Width: 8},
		}, rows) + "\n\n"
	}

	return out
}

func floatRows(values fields.Map[float64], units *fields.Units) [][]string {
	var rows [][]string
	for _, sec := range fields.GroupFloats(values) {
		for _, p := range sec.Values {
			key := fields.FloatRule{}.Join(sec.Key, p.Key)
			rows = append(rows, []string{
				sec.Title,
				fields.FormatSegment(p.Key),
				fmt.Sprintf("%.2f", p.Value),
				units.For(key),
			})
		}
	}
	return rows
}
