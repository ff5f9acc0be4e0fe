package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vtarchitect/vtconsole/internal/api"
	"github.com/vtarchitect/vtconsole/internal/errors"
	"github.com/vtarchitect/vtconsole/internal/fields"
	"github.com/vtarchitect/vtconsole/internal/timerange"
)

// historyGraphHeight is the number of braille rows in the history graph.
const historyGraphHeight = 6

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.viewportReady {
		b.WriteString(m.viewport.View())
	} else {
		b.WriteString(m.renderBody())
	}

	if m.ShowFooter() {
		b.WriteString("\n")
		b.WriteString(m.renderFooter())
	}

	return b.String()
}

// renderHeader renders the title, range, and request status.
func (m Model) renderHeader() string {
	desc := timerange.Describe(m.rng.Start, m.rng.Stop)

	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render("vtconsole")

	info := lipgloss.NewStyle().
		Foreground(ColorTextSecondary).
		Render(fmt.Sprintf(" | %s (%s) | %s", desc.Label, desc.Duration, m.updateText()))

	status := ""
	switch {
	case m.statsState.Loading:
		status = " " + LoadingStyle.Render(SpinnerFrames[m.spinnerFrame%len(SpinnerFrames)])
	case m.statsState.Err != nil:
		status = " " + ErrorTextStyle.Render("Error: "+errors.Message(m.statsState.Err))
	}

	return HeaderStyle.Render(title + info + status)
}

func (m Model) updateText() string {
	if m.statsState.UpdatedAt.IsZero() {
		return "waiting for data"
	}
	switch s := m.SecondsSinceUpdate(); s {
	case 0:
		return "updated just now"
	case 1:
		return "updated 1s ago"
	default:
		return fmt.Sprintf("updated %ds ago", s)
	}
}

// renderBody renders every panel top to bottom.
func (m Model) renderBody() string {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}

	stats := m.statsState.Data
	if stats == nil {
		return panelMessage(m.statsState.Loading, m.statsState.Err, false, textLoading, textNoData)
	}

	rangeLabel := timerange.Describe(m.rng.Start, m.rng.Stop).Label

	var parts []string
	add := func(s string) {
		if s != "" {
			parts = append(parts, s)
		}
	}

	add(renderProjectMeta(stats.ProjectMeta, width))
	add(renderHealth(Summarize(stats, m.opts.PartsPerMinuteField, m.opts.AutoModeField), rangeLabel, width))

	if s := renderSystemStatus(stats, width); s != "" {
		add(sectionTitle("System Status"))
		add(s)
	}

	if s := renderFloatCards(stats.FloatAverages, m.opts.Units, m.history, width); s != "" {
		add(sectionTitle("Float Averages"))
		add(s)
	}

	add(m.renderHistory(width))
	add(renderFaults(FaultBars(stats.FaultCounts), rangeLabel, width))

	return strings.Join(parts, "\n")
}

// renderHistory renders the selected field's time series.
func (m Model) renderHistory(width int) string {
	title := "Performance Data"
	value := "no fields"
	unit := ""
	if m.field != "" {
		title = fields.GroupLabel(m.field) + " Data"
		if k := fields.ParseKey(m.field); k.HasSubgroup() {
			title = fields.FormatSegment(k.Field) + " Data"
		}
		value = fields.FieldLabel(m.field)
		unit = m.opts.Units.For(m.field)
	}

	st := m.seriesState
	if msg := panelMessage(st.Loading, st.Err, len(st.Data) > 0, textLoadingHistory, textNoRangeData); msg != "" {
		return renderSection(title, value, []string{msg}, width)
	}

	graph := RenderHistoryGraph(localTimes(st.Data), width-4, historyGraphHeight, timerange.IsMultiDay(m.rng.Start))
	lines := strings.Split(graph, "\n")

	last := st.Data[len(st.Data)-1]
	latest := fmt.Sprintf("%.2f", last.Value)
	if unit != "" {
		latest += " (" + unit + ")"
	}
	lines = append(lines, LabelStyle.Render("Latest ")+ValueStyle.Render(latest)+
		MutedStyle.Render(" at "+timerange.FormatTimestamp(last.Time.Local())))

	return renderSection(title, value, lines, width)
}

// localTimes converts sample times to the local zone for axis labels.
func localTimes(points []api.FloatDataPoint) []api.FloatDataPoint {
	out := make([]api.FloatDataPoint, len(points))
	for i, p := range points {
		out[i] = api.FloatDataPoint{Time: p.Time.Local(), Value: p.Value}
	}
	return out
}

func sectionTitle(s string) string {
	return lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Bold(true).
		Render(strings.ToUpper(s))
}

// renderFooter renders the keyboard help footer.
func (m Model) renderFooter() string {
	hints := []string{
		"q quit",
		"r refresh",
		"t/T range",
		"f/F field",
		"j/k scroll",
		"? help",
	}

	return FooterStyle.Render(strings.Join(hints, " | "))
}
