package monitor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vtarchitect/vtconsole/internal/api"
	"github.com/vtarchitect/vtconsole/internal/errors"
	"github.com/vtarchitect/vtconsole/internal/fields"
	"github.com/vtarchitect/vtconsole/internal/ui"
)

// FaultPrefix marks the keys shown in the fault panel.
const FaultPrefix = "FaultBits."

// Panel placeholder texts.
const (
	textLoading        = "Loading..."
	textLoadingHistory = "Loading historical data..."
	textNoData         = "No data available."
	textNoRangeData    = "No data available for this range."
	textNoFaults       = "No fault data available for this range."
)

// preferredMetaKeys are listed first in the project panel, in this order.
var preferredMetaKeys = []string{
	"Project Name",
	"Project Number",
	"Project Description",
	"Manufacturer",
	"Created On",
	"Input Voltage",
	"Input Phase",
	"Input Frequency",
	"Input Current",
	"Control Voltage",
	"Output Power",
	"Enclosure Rating",
}

// SortProjectMeta orders metadata with preferredMetaKeys first and the
// remaining keys alphabetically.
func SortProjectMeta(meta fields.Map[string]) fields.Map[string] {
	rank := func(key string) int {
		for i, k := range preferredMetaKeys {
			if k == key {
				return i
			}
		}
		return -1
	}

	out := make(fields.Map[string], len(meta))
	copy(out, meta)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := rank(out[i].Key), rank(out[j].Key)
		switch {
		case ri >= 0 && rj >= 0:
			return ri < rj
		case ri >= 0:
			return true
		case rj >= 0:
			return false
		default:
			return out[i].Key < out[j].Key
		}
	})
	return out
}

// HealthSummary is the headline figures for a range.
type HealthSummary struct {
	PartsPerMinute float64 `json:"parts_per_minute"`
	AutoMode       float64 `json:"auto_mode"`
	TotalFaults    float64 `json:"total_faults"`
}

// Summarize picks the parts-per-minute average and the automatic-mode share
// out of stats and totals the fault counts. Missing fields count as zero.
func Summarize(stats *api.StatsResponse, ppmField, autoModeField string) HealthSummary {
	var s HealthSummary
	if stats == nil {
		return s
	}
	s.PartsPerMinute, _ = stats.FloatAverages.Get(ppmField)
	s.AutoMode, _ = stats.BooleanPercentages.Get(autoModeField)
	for _, f := range FaultBars(stats.FaultCounts) {
		s.TotalFaults += f.Count
	}
	return s
}

// FaultBar is one row of the fault chart.
type FaultBar struct {
	Key   string
	Label string
	Count float64
}

// FaultBars keeps FaultBits keys with a positive count, largest first.
func FaultBars(faults fields.Map[float64]) []FaultBar {
	var bars []FaultBar
	for _, p := range faults {
		if !strings.HasPrefix(p.Key, FaultPrefix) || p.Value <= 0 {
			continue
		}
		bars = append(bars, FaultBar{Key: p.Key, Label: fields.Label(p.Key), Count: p.Value})
	}
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Count > bars[j].Count })
	return bars
}

// sortedDesc orders a section's values largest first.
func sortedDesc(values fields.Map[float64]) fields.Map[float64] {
	out := make(fields.Map[float64], len(values))
	copy(out, values)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}

// sortedByKey orders a section's values by sub-field name.
func sortedByKey(values fields.Map[float64]) fields.Map[float64] {
	out := make(fields.Map[float64], len(values))
	copy(out, values)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// FloatFields lists the float keys that belong to a float section, in
// response order. These are the fields the history graph can show.
func FloatFields(values fields.Map[float64]) []string {
	var keys []string
	rule := fields.FloatRule{}
	for _, p := range values {
		if _, _, ok := rule.Split(p.Key); ok {
			keys = append(keys, p.Key)
		}
	}
	return keys
}

// panelMessage returns the placeholder for a panel that has nothing to
// draw, or "" when the panel has data to render. Errors win over data so a
// failing backend is never hidden behind stale values.
func panelMessage(loading bool, err error, hasData bool, loadingText, emptyText string) string {
	switch {
	case err != nil:
		return ErrorTextStyle.Render("Error: " + errors.Message(err))
	case hasData:
		return ""
	case loading:
		return MutedStyle.Render(loadingText)
	default:
		return MutedStyle.Render(emptyText)
	}
}

// renderProjectMeta renders the project panel, or "" without metadata.
func renderProjectMeta(meta fields.Map[string], width int) string {
	if len(meta) == 0 {
		return ""
	}

	title := "Project Information"
	if name, ok := meta.Get("Project Name"); ok && name != "" {
		title = name
	}

	sorted := SortProjectMeta(meta)
	labelWidth := 0
	for _, p := range sorted {
		if w := runewidth.StringWidth(p.Key); w > labelWidth {
			labelWidth = w
		}
	}

	var lines []string
	for _, p := range sorted {
		if p.Key == "Project Name" {
			continue
		}
		lines = append(lines, LabelStyle.Render(runewidth.FillRight(p.Key, labelWidth))+"  "+p.Value)
	}
	return renderSection(title, "", lines, width)
}

// renderHealth renders the summary figures.
func renderHealth(s HealthSummary, rangeLabel string, width int) string {
	barWidth := width - 30
	if barWidth < 10 {
		barWidth = 10
	}

	autoStyle := lipgloss.NewStyle().Foreground(AutoModeColor(s.AutoMode)).Bold(true)
	faultStyle := lipgloss.NewStyle().Foreground(FaultColor(s.TotalFaults)).Bold(true)

	lines := []string{
		LabelStyle.Render(fmt.Sprintf("%-22s", "Avg. Parts Per Minute")) + ValueStyle.Render(fmt.Sprintf("%.1f", s.PartsPerMinute)),
		LabelStyle.Render(fmt.Sprintf("%-22s", "Automatic Mode")) + autoStyle.Render(fmt.Sprintf("%.1f%%", s.AutoMode)),
		ProgressBar(barWidth, s.AutoMode, AutoModeColor(s.AutoMode)),
		LabelStyle.Render(fmt.Sprintf("%-22s", "Total Faults")) + faultStyle.Render(fmt.Sprintf("%.0f", s.TotalFaults)),
	}
	return renderSection("System Health Summary", rangeLabel, lines, width)
}

// renderSystemStatus renders the live status bits followed by one card per
// boolean section.
func renderSystemStatus(stats *api.StatsResponse, width int) string {
	var parts []string

	if len(stats.SystemStatus) > 0 {
		items := make([]ui.Indicator, 0, len(stats.SystemStatus))
		for _, p := range stats.SystemStatus {
			items = append(items, ui.Indicator{
				Label: strings.TrimPrefix(p.Key, "SystemStatusBits."),
				On:    p.Value,
			})
		}
		lines := strings.Split(strings.TrimRight(ui.RenderIndicators(items), "\n"), "\n")
		parts = append(parts, renderSection("Live Status", "", lines, width))
	}

	var cards []string
	for _, sec := range fields.GroupBooleans(stats.BooleanPercentages) {
		var lines []string
		for _, p := range sortedDesc(sec.Values) {
			lines = append(lines, rowLine(fields.FormatKey(p.Key), fmt.Sprintf("%.1f%%", p.Value), cardInnerWidth(width)))
		}
		cards = append(cards, renderCard(sec.Title, lines, width))
	}
	if len(cards) > 0 {
		parts = append(parts, layoutCards(cards, width))
	}

	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "\n")
}

// renderFloatCards renders one card per float section with a trend
// sparkline of recent polls next to each value.
func renderFloatCards(values fields.Map[float64], units *fields.Units, history *History, width int) string {
	rule := fields.FloatRule{}
	sections := fields.GroupFloats(values)
	if len(sections) == 0 {
		return ""
	}

	inner := cardInnerWidth(width)
	sparkWidth := 0
	if inner >= 40 {
		sparkWidth = 10
	}

	cards := make([]string, 0, len(sections))
	for _, sec := range sections {
		var lines []string
		for _, p := range sortedByKey(sec.Values) {
			key := rule.Join(sec.Key, p.Key)
			value := fmt.Sprintf("%.2f", p.Value)
			if unit := units.For(key); unit != "" {
				value += " " + unit
			}
			if sparkWidth > 0 {
				trend := ui.Sparkline(history.Get(key, sparkWidth), sparkWidth)
				value = lipgloss.NewStyle().Foreground(ColorGraph).Render(runewidth.FillLeft(trend, sparkWidth)) + " " + value
			}
			lines = append(lines, rowLine(fields.FormatKey(p.Key), value, inner))
		}
		cards = append(cards, renderCard(sec.Title, lines, width))
	}
	return layoutCards(cards, width)
}

// renderFaults renders the fault counts as a horizontal bar chart.
func renderFaults(bars []FaultBar, rangeLabel string, width int) string {
	if len(bars) == 0 {
		return renderSection("Fault Counts", rangeLabel, []string{MutedStyle.Render(textNoFaults)}, width)
	}

	inner := width - 4
	labelWidth := 0
	maxCount := 0.0
	for _, b := range bars {
		if w := runewidth.StringWidth(b.Label); w > labelWidth {
			labelWidth = w
		}
		if b.Count > maxCount {
			maxCount = b.Count
		}
	}
	countWidth := len(fmt.Sprintf("%.0f", maxCount))
	if limit := inner / 2; labelWidth > limit {
		labelWidth = limit
	}
	barSpace := inner - labelWidth - countWidth - 2
	if barSpace < 1 {
		barSpace = 1
	}

	barStyle := lipgloss.NewStyle().Foreground(ColorAccent)
	var lines []string
	for _, b := range bars {
		label := runewidth.FillRight(runewidth.Truncate(b.Label, labelWidth, "…"), labelWidth)
		n := int(b.Count / maxCount * float64(barSpace))
		if n < 1 {
			n = 1
		}
		lines = append(lines,
			label+" "+barStyle.Render(strings.Repeat("█", n))+" "+ValueStyle.Render(fmt.Sprintf("%.0f", b.Count)))
	}
	return renderSection("Fault Counts", rangeLabel, lines, width)
}

// cardWidth is the outer width of one card, margin included, for a
// terminal width.
func cardWidth(width int) int {
	switch {
	case width >= BreakpointWide:
		return width/3 - 1
	case width >= BreakpointStandard:
		return width/2 - 1
	default:
		return width
	}
}

// cardInnerWidth is the text width inside a card's border and padding.
func cardInnerWidth(width int) int {
	return cardWidth(width) - 5
}

func renderCard(title string, lines []string, width int) string {
	body := CardTitleStyle.Render(title)
	if len(lines) > 0 {
		body += "\n" + strings.Join(lines, "\n")
	}
	return CardStyle.Width(cardWidth(width) - 3).Render(body)
}

// rowLine left-aligns label and right-aligns value within width columns,
// truncating the label when they do not fit.
func rowLine(label, value string, width int) string {
	valueWidth := lipgloss.Width(value)
	labelWidth := width - valueWidth - 1
	if labelWidth < 1 {
		labelWidth = 1
	}
	label = runewidth.FillRight(runewidth.Truncate(label, labelWidth, "…"), labelWidth)
	return LabelStyle.Render(label) + " " + value
}

// layoutCards arranges cards in rows that fit width.
func layoutCards(cards []string, width int) string {
	if len(cards) == 0 {
		return ""
	}

	perRow := 1
	if cw := cardWidth(width); cw > 0 {
		perRow = width / cw
	}
	if perRow < 1 {
		perRow = 1
	}

	var rows []string
	for i := 0; i < len(cards); i += perRow {
		end := i + perRow
		if end > len(cards) {
			end = len(cards)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
