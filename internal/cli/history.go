package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/vtarchitect/vtconsole/internal/api"
	"github.com/vtarchitect/vtconsole/internal/fields"
	"github.com/vtarchitect/vtconsole/internal/timerange"
	"github.com/vtarchitect/vtconsole/internal/ui"
)

// historySparkWidth caps the sparkline; longer series show their tail.
const historySparkWidth = 60

// HistoryOptions configures the history command.
type HistoryOptions struct {
	Field string
	Range timerange.Range
	Units *fields.Units
	JSON  bool
}

// SeriesSummary condenses a float series.
type SeriesSummary struct {
	Count  int       `json:"count"`
	Min    float64   `json:"min"`
	Max    float64   `json:"max"`
	Avg    float64   `json:"avg"`
	Latest float64   `json:"latest"`
	From   time.Time `json:"from"`
	To     time.Time `json:"to"`
}

// HistoryOutput is the --json form of the history command.
type HistoryOutput struct {
	Field   string               `json:"field"`
	Label   string               `json:"label"`
	Unit    string               `json:"unit,omitempty"`
	Range   timerange.Range      `json:"range"`
	Summary *SeriesSummary       `json:"summary,omitempty"`
	Points  []api.FloatDataPoint `json:"points"`
}

// historyCommand fetches one float series and prints a sparkline summary.
func historyCommand(ctx context.Context, w io.Writer, client *api.Client, opts HistoryOptions) error {
	if err := requireArg(opts.Field, "A float field", "vtconsole history Floats.Performance.PartsPerMinute"); err != nil {
		return err
	}
	if opts.Units == nil {
		opts.Units = fields.DefaultUnits
	}

	points, err := client.FloatRange(ctx, opts.Field, opts.Range)
	if err != nil {
		return err
	}

	label := fields.Label(opts.Field)
	unit := opts.Units.For(opts.Field)
	summary := summarizeSeries(points)

	if opts.JSON {
		if points == nil {
			points = []api.FloatDataPoint{}
		}
		return WriteJSONSuccess(w, HistoryOutput{
			Field:   opts.Field,
			Label:   label,
			Unit:    unit,
			Range:   opts.Range,
			Summary: summary,
			Points:  points,
		})
	}

	desc := timerange.Describe(opts.Range.Start, opts.Range.Stop)
	fmt.Fprint(w, ui.RenderHeader(ui.HeaderInfo{
		Title:    label,
		Range:    desc.Label,
		Duration: desc.Duration,
		Source:   opts.Field,
	}))
	fmt.Fprintln(w)

	if summary == nil {
		fmt.Fprintln(w, ui.MutedStyle().Render("No data available for this range."))
		return nil
	}

	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	fmt.Fprintln(w, "  "+ui.RenderSparkline(values, historySparkWidth, ui.ColorNeonCyan))
	fmt.Fprintln(w)

	multiDay := timerange.IsMultiDay(opts.Range.Start)
	withUnit := func(v float64) string {
		s := fmt.Sprintf("%.2f", v)
		if unit != "" {
			s += " " + unit
		}
		return s
	}
	fmt.Fprint(w, ui.RenderSections([]ui.Section{{
		Title: "Summary",
		Rows: []ui.Row{
			{Label: "Samples", Value: fmt.Sprintf("%d", summary.Count)},
			{Label: "Min", Value: withUnit(summary.Min)},
			{Label: "Avg", Value: withUnit(summary.Avg)},
			{Label: "Max", Value: withUnit(summary.Max)},
			{Label: "Latest", Value: withUnit(summary.Latest) + "  " +
				ui.MutedStyle().Render(timerange.FormatTimestamp(summary.To.Local()))},
			{Label: "Span", Value: timerange.FormatTick(summary.From.Local(), multiDay) + " to " +
				timerange.FormatTick(summary.To.Local(), multiDay)},
		},
	}}))
	return nil
}

// summarizeSeries returns nil for an empty series.
func summarizeSeries(points []api.FloatDataPoint) *SeriesSummary {
	if len(points) == 0 {
		return nil
	}

	s := &SeriesSummary{
		Count: len(points),
		Min:   math.Inf(1),
		Max:   math.Inf(-1),
		From:  points[0].Time,
		To:    points[len(points)-1].Time,
	}
	var sum float64
	for _, p := range points {
		s.Min = math.Min(s.Min, p.Value)
		s.Max = math.Max(s.Max, p.Value)
		sum += p.Value
	}
	s.Avg = sum / float64(len(points))
	s.Latest = points[len(points)-1].Value
	return s
}
