package monitor

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vtarchitect/vtconsole/internal/api"
	"github.com/vtarchitect/vtconsole/internal/fields"
	"github.com/vtarchitect/vtconsole/internal/logger"
	"github.com/vtarchitect/vtconsole/internal/poller"
	"github.com/vtarchitect/vtconsole/internal/timerange"
)

// LayoutMode represents the responsive layout mode based on terminal size.
type LayoutMode int

const (
	// LayoutMinimal is for terminals < 80 columns: one card per row, no sparklines
	LayoutMinimal LayoutMode = iota
	// LayoutCompact is for terminals 80-120 columns: one card per row
	LayoutCompact
	// LayoutStandard is for terminals 120-160 columns: two cards per row
	LayoutStandard
	// LayoutWide is for terminals 160+ columns: three cards per row
	LayoutWide
)

// Width breakpoints for layout modes
const (
	BreakpointCompact  = 80
	BreakpointStandard = 120
	BreakpointWide     = 160
)

// HeightMinimal is the shortest terminal that still gets a footer.
const HeightMinimal = 24

// defaultWidth is used before the first WindowSizeMsg arrives.
const defaultWidth = 80

const (
	headerHeight = 2
	footerHeight = 1
)

// spinnerInterval is the header animation frame rate.
const spinnerInterval = 150 * time.Millisecond

// Options configures a dashboard.
type Options struct {
	Range timerange.Range
	// Interval and HistoryInterval are the stats and history polling
	// periods. Zero fetches once and never polls.
	Interval        time.Duration
	HistoryInterval time.Duration
	HistorySize     int

	PartsPerMinuteField string
	AutoModeField       string

	// Units resolves float units. Defaults to fields.DefaultUnits.
	Units  *fields.Units
	Logger logger.Logger
}

// seriesParams selects one float field over a range.
type seriesParams struct {
	Field string
	Range timerange.Range
}

type (
	statsSource  = poller.Source[timerange.Range, *api.StatsResponse]
	seriesSource = poller.Source[seriesParams, []api.FloatDataPoint]
)

// Model is the Bubble Tea model for the statistics dashboard.
type Model struct {
	opts Options

	stats  *statsSource
	series *seriesSource

	statsState  poller.State[*api.StatsResponse]
	seriesState poller.State[[]api.FloatDataPoint]

	rng     timerange.Range
	field   string
	fields  []string
	history *History
	// pushedSeq is the stats request whose averages were last recorded.
	pushedSeq uint64

	width        int
	height       int
	spinnerFrame int
	showHelp     bool
	quitting     bool

	viewport      viewport.Model
	viewportReady bool
}

// statsMsg carries a stats poller update.
type statsMsg poller.State[*api.StatsResponse]

// seriesMsg carries a history poller update.
type seriesMsg poller.State[[]api.FloatDataPoint]

// spinnerTickMsg advances the header animation.
type spinnerTickMsg time.Time

// NewModel creates a dashboard reading from client. Polling starts in Init.
func NewModel(client *api.Client, opts Options) Model {
	if opts.Range == (timerange.Range{}) {
		opts.Range = timerange.Default()
	}
	if opts.Units == nil {
		opts.Units = fields.DefaultUnits
	}
	if opts.Logger == nil {
		opts.Logger = logger.Noop()
	}

	stats := poller.New(func(ctx context.Context, r timerange.Range) (*api.StatsResponse, error) {
		return client.Stats(ctx, r)
	}, poller.Options[timerange.Range]{Name: "stats", Logger: opts.Logger})

	series := poller.New(func(ctx context.Context, p seriesParams) ([]api.FloatDataPoint, error) {
		return client.FloatRange(ctx, p.Field, p.Range)
	}, poller.Options[seriesParams]{
		Name:   "history",
		Skip:   func(p seriesParams) bool { return p.Field == "" },
		Logger: opts.Logger,
	})

	return Model{
		opts:    opts,
		stats:   stats,
		series:  series,
		rng:     opts.Range,
		history: NewHistory(opts.HistorySize),
	}
}

// Init starts both pollers and the header animation.
func (m Model) Init() tea.Cmd {
	m.stats.Start(m.rng, m.opts.Interval)
	m.series.Start(m.seriesParams(), m.opts.HistoryInterval)
	return tea.Batch(
		waitForStats(m.stats.Updates()),
		waitForSeries(m.series.Updates()),
		m.spinnerTickCmd(),
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if handled, cmd := m.HandleKeyMsg(msg); handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		viewportHeight := m.height - headerHeight - footerHeight
		if viewportHeight < 1 {
			viewportHeight = 1
		}
		if !m.viewportReady {
			m.viewport = viewport.New(m.width, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.viewportReady = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = viewportHeight
		}
		m.refreshContent()

	case spinnerTickMsg:
		m.spinnerFrame = (m.spinnerFrame + 1) % len(SpinnerFrames)
		return m, m.spinnerTickCmd()

	case statsMsg:
		m.applyStats(poller.State[*api.StatsResponse](msg))
		m.refreshContent()
		return m, waitForStats(m.stats.Updates())

	case seriesMsg:
		m.seriesState = poller.State[[]api.FloatDataPoint](msg)
		m.refreshContent()
		return m, waitForSeries(m.series.Updates())
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return m.renderDashboard()
}

// Close stops both pollers. It is safe to call more than once.
func (m *Model) Close() {
	m.stats.Stop()
	m.series.Stop()
}

// Range returns the range being displayed.
func (m Model) Range() timerange.Range {
	return m.rng
}

// Field returns the float field shown in the history graph.
func (m Model) Field() string {
	return m.field
}

// SetRange switches both pollers to r and drops the trend history, whose
// samples were averaged over the old range.
func (m *Model) SetRange(r timerange.Range) {
	if r == m.rng {
		return
	}
	m.rng = r
	m.history.ClearAll()
	m.stats.Update(r, m.opts.Interval)
	m.series.Update(m.seriesParams(), m.opts.HistoryInterval)
	m.refreshContent()
}

// applyStats records a stats update. Trend samples are taken once per
// settled request, and the history field follows the available fields.
func (m *Model) applyStats(st poller.State[*api.StatsResponse]) {
	m.statsState = st
	if st.Loading || st.Err != nil || st.Data == nil {
		return
	}

	if st.Seq != m.pushedSeq {
		m.history.Push(st.Data.FloatAverages)
		m.pushedSeq = st.Seq
	}

	m.fields = FloatFields(st.Data.FloatAverages)
	if indexOf(m.fields, m.field) < 0 {
		field := ""
		if len(m.fields) > 0 {
			field = m.fields[0]
		}
		m.setField(field)
	}
}

// stepField moves the history graph delta fields along, wrapping.
func (m *Model) stepField(delta int) {
	n := len(m.fields)
	if n == 0 {
		return
	}
	i := indexOf(m.fields, m.field)
	if i < 0 {
		i = 0
	} else {
		i = ((i+delta)%n + n) % n
	}
	m.setField(m.fields[i])
}

func (m *Model) setField(field string) {
	if field == m.field {
		return
	}
	m.field = field
	m.series.Update(m.seriesParams(), m.opts.HistoryInterval)
	m.refreshContent()
}

func (m Model) seriesParams() seriesParams {
	return seriesParams{Field: m.field, Range: m.rng}
}

// refreshContent re-renders the scrollable body.
func (m *Model) refreshContent() {
	if !m.viewportReady {
		return
	}
	m.viewport.SetContent(m.renderBody())
}

// LayoutMode returns the current layout mode based on terminal width.
func (m Model) LayoutMode() LayoutMode {
	switch {
	case m.width >= BreakpointWide:
		return LayoutWide
	case m.width >= BreakpointStandard:
		return LayoutStandard
	case m.width >= BreakpointCompact:
		return LayoutCompact
	default:
		return LayoutMinimal
	}
}

// ShowFooter returns true if the terminal is tall enough to show the footer.
func (m Model) ShowFooter() bool {
	return m.height >= HeightMinimal
}

// SecondsSinceUpdate returns how many seconds have passed since the last
// stats response settled.
func (m Model) SecondsSinceUpdate() int {
	if m.statsState.UpdatedAt.IsZero() {
		return 0
	}
	return int(time.Since(m.statsState.UpdatedAt).Seconds())
}

func (m Model) spinnerTickCmd() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

// waitForStats blocks for the next stats update. A closed channel ends the
// chain.
func waitForStats(ch <-chan poller.State[*api.StatsResponse]) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-ch
		if !ok {
			return nil
		}
		return statsMsg(st)
	}
}

func waitForSeries(ch <-chan poller.State[[]api.FloatDataPoint]) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-ch
		if !ok {
			return nil
		}
		return seriesMsg(st)
	}
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
