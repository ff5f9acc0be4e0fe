// Package monitor implements the full-screen statistics dashboard.
//
// The dashboard polls the statistics API for the selected time range and
// shows project metadata, a health summary, boolean status sections, float
// average cards, a time-series graph for one float field, and fault counts.
//
// # Architecture
//
// The package uses the Bubble Tea framework (Model-Update-View):
//
//   - Model: range, selected history field, latest poller states, layout
//   - Update: keystrokes, window size, poller updates, animation ticks
//   - View: header, scrollable panel body, footer
//
// # Message Flow
//
// Two poller.Source values do the fetching. Init starts them and each
// update they publish is turned into a message by a command that blocks on
// the source's Updates channel:
//
//  1. the stats source fetches /api/stats every refresh interval
//  2. statsMsg arrives; averages are pushed into History for trend lines
//  3. the history source fetches /api/float-range for the selected field
//  4. seriesMsg arrives and the graph is redrawn
//
// Changing the range or the field updates the sources, which cancel any
// request for the old parameters.
//
// # Keyboard Shortcuts
//
//	q, Ctrl+C   - Quit
//	r           - Refresh now
//	t / T       - Next / previous range preset
//	f / F       - Next / previous history field
//	j/k, ↑/↓    - Scroll
//	?           - Toggle help overlay
package monitor
