package monitor

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vtarchitect/vtconsole/internal/timerange"
)

// Key bindings as constants for consistency.
const (
	KeyQuit       = "q"
	KeyQuitAlt    = "ctrl+c"
	KeyRefresh    = "r"
	KeyRangeNext  = "t"
	KeyRangePrev  = "T"
	KeyFieldNext  = "f"
	KeyFieldPrev  = "F"
	KeyScrollTop  = "home"
	KeyScrollEnd  = "end"
	KeyCloseHelp  = "esc"
	KeyToggleHelp = "?"
)

// scrollKeys are forwarded to the viewport's own key map.
var scrollKeys = map[string]bool{
	"j": true, "k": true, "up": true, "down": true,
	"pgup": true, "pgdown": true, "ctrl+u": true, "ctrl+d": true,
}

// HandleKeyMsg processes keyboard input.
// Returns true if the key was handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return true, nil
	}

	if m.showHelp && key == KeyCloseHelp {
		m.showHelp = false
		return true, nil
	}

	switch key {
	case KeyQuit, KeyQuitAlt:
		m.quitting = true
		m.Close()
		return true, tea.Quit

	case KeyRefresh:
		m.stats.Refresh()
		m.series.Refresh()
		return true, nil

	case KeyRangeNext:
		m.SetRange(timerange.StepPreset(m.rng.Start, 1))
		return true, nil

	case KeyRangePrev:
		m.SetRange(timerange.StepPreset(m.rng.Start, -1))
		return true, nil

	case KeyFieldNext:
		m.stepField(1)
		return true, nil

	case KeyFieldPrev:
		m.stepField(-1)
		return true, nil

	case KeyScrollTop:
		m.viewport.GotoTop()
		return true, nil

	case KeyScrollEnd:
		m.viewport.GotoBottom()
		return true, nil
	}

	if scrollKeys[key] {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return true, cmd
	}

	return false, nil
}
