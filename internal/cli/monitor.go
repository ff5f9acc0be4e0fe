package cli

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vtarchitect/vtconsole/internal/api"
	"github.com/vtarchitect/vtconsole/internal/config"
	"github.com/vtarchitect/vtconsole/internal/errors"
	"github.com/vtarchitect/vtconsole/internal/fields"
	"github.com/vtarchitect/vtconsole/internal/logger"
	"github.com/vtarchitect/vtconsole/internal/monitor"
	"github.com/vtarchitect/vtconsole/internal/ui"
)

// debugLogFile receives log output while the dashboard owns the terminal.
const debugLogFile = "vtconsole-debug.log"

// dashboardOptions builds the dashboard's options from config and flags.
func dashboardOptions(cfg *config.Config, rangeFlags RangeFlags, intervalFlag string) (monitor.Options, error) {
	r, err := rangeFlags.Resolve(cfg)
	if err != nil {
		return monitor.Options{}, err
	}

	interval, err := ParseInterval(intervalFlag, cfg.Refresh.Interval)
	if err != nil {
		return monitor.Options{}, err
	}
	historyInterval := cfg.Refresh.HistoryInterval
	if intervalFlag != "" {
		historyInterval = interval
	}

	return monitor.Options{
		Range:               r,
		Interval:            interval,
		HistoryInterval:     historyInterval,
		HistorySize:         cfg.History.Size,
		PartsPerMinuteField: cfg.Health.PartsPerMinuteField,
		AutoModeField:       cfg.Health.AutoModeField,
		Units:               fields.DefaultUnits,
	}, nil
}

// dashboardCommand starts the full-screen dashboard.
func dashboardCommand(cfg *config.Config, rangeFlags RangeFlags, intervalFlag string) error {
	if machineMode {
		return errors.New(errors.ErrConfig,
			"The dashboard is interactive and has no JSON output",
			"Use 'vtconsole stats --json' instead.")
	}
	if !ui.IsTerminal(os.Stdout) {
		return errors.New(errors.ErrConfig,
			"The dashboard needs an interactive terminal",
			"Use 'vtconsole stats' for piped or scripted output.")
	}

	opts, err := dashboardOptions(cfg, rangeFlags, intervalFlag)
	if err != nil {
		return err
	}

	log := logger.Noop()
	if logger.DebugEnabled() {
		f, err := tea.LogToFile(debugLogFile, "vtconsole")
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Couldn't open "+debugLogFile,
				"Check the current directory is writable, or unset "+logger.DebugEnv+".")
		}
		defer f.Close()
		log = logger.NewEnvLogger("dashboard")
	}
	opts.Logger = log

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, api.WithLogger(log))
	model := monitor.NewModel(client, opts)

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()

	// Stop the pollers whether the program quit through a key or a signal.
	if m, ok := final.(monitor.Model); ok {
		m.Close()
	} else {
		model.Close()
	}

	return err
}
