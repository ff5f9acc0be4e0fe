package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vtarchitect/vtconsole/internal/config"
	"github.com/vtarchitect/vtconsole/internal/doctor"
	"github.com/vtarchitect/vtconsole/internal/timerange"
	"github.com/vtarchitect/vtconsole/internal/ui"
)

// doctorTimeout bounds each server check.
const doctorTimeout = 10 * time.Second

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose config, server, and terminal problems",
	Long: `Run diagnostic checks and report what needs attention.

Checks the config file, whether the statistics server answers and has
data, whether the configured health fields exist, and whether the
terminal can show the dashboard.

Examples:
  vtconsole doctor
  vtconsole doctor --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand(cmd.Context(), cmd.OutOrStdout(), DoctorOptions{
			ConfigPath: cfgFile,
			Terminal:   os.Stdout,
			JSON:       machineMode,
		})
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// DoctorOptions configures the doctor command.
type DoctorOptions struct {
	ConfigPath string
	// Terminal is checked by the TERMINAL checks.
	Terminal *os.File
	JSON     bool
}

// DoctorOutput represents the JSON output for doctor command.
type DoctorOutput struct {
	Categories []doctor.Group `json:"categories"`
	Summary    SummaryOutput  `json:"summary"`
}

// SummaryOutput summarizes the check results.
type SummaryOutput struct {
	Pass     int  `json:"pass"`
	Warn     int  `json:"warn"`
	Fail     int  `json:"fail"`
	AllClear bool `json:"all_clear"`
}

func doctorCommand(ctx context.Context, w io.Writer, opts DoctorOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	results := doctor.RunAll(ctx, collectChecks(opts))

	if opts.JSON {
		counts := doctor.CountByStatus(results)
		return WriteJSONSuccess(w, DoctorOutput{
			Categories: doctor.GroupByCategory(results),
			Summary: SummaryOutput{
				Pass:     counts[doctor.StatusPass],
				Warn:     counts[doctor.StatusWarn],
				Fail:     counts[doctor.StatusFail],
				AllClear: !doctor.HasIssues(results),
			},
		})
	}

	writeDoctorText(w, results)
	return nil
}

// collectChecks gathers the checks. Server checks run against the loaded
// config, or the defaults when it can't be loaded, so a broken config
// still reports on the server.
func collectChecks(opts DoctorOptions) []doctor.Check {
	cfg, _, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		cfg = config.DefaultConfig()
	}

	r, err := RangeFlags{}.Resolve(cfg)
	if err != nil {
		r = timerange.Default()
	}

	client := newClient(cfg)
	var checks []doctor.Check
	checks = append(checks, doctor.NewConfigChecks(opts.ConfigPath)...)
	checks = append(checks, withTimeout(doctor.NewServerChecks(client, doctor.ServerOptions{
		Range:               r,
		PartsPerMinuteField: cfg.Health.PartsPerMinuteField,
		AutoModeField:       cfg.Health.AutoModeField,
	}))...)
	checks = append(checks, doctor.NewTerminalChecks(opts.Terminal)...)
	return checks
}

// timedCheck bounds a check with doctorTimeout.
type timedCheck struct {
	doctor.Check
}

func (c timedCheck) Run(ctx context.Context) doctor.CheckResult {
	ctx, cancel := context.WithTimeout(ctx, doctorTimeout)
	defer cancel()
	return c.Check.Run(ctx)
}

func withTimeout(checks []doctor.Check) []doctor.Check {
	out := make([]doctor.Check, len(checks))
	for i, c := range checks {
		out[i] = timedCheck{c}
	}
	return out
}

func writeDoctorText(w io.Writer, results []doctor.CheckResult) {
	headerStyle := lipgloss.NewStyle().Bold(true)

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("vtconsole Diagnostic Report"))
	fmt.Fprintln(w)

	for _, group := range doctor.GroupByCategory(results) {
		fmt.Fprintln(w, headerStyle.Render(group.Name))
		for _, r := range group.Results {
			renderCheckResult(w, r)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, strings.Repeat("━", 60))
	fmt.Fprintln(w)

	if doctor.HasIssues(results) {
		fmt.Fprintf(w, "%s %s\n", ui.ErrorStyle().Render(ui.SymbolFail), doctor.Summary(results))
	} else {
		fmt.Fprintf(w, "%s %s\n", ui.SuccessStyle().Render(ui.SymbolSuccess), doctor.Summary(results))
	}
	fmt.Fprintln(w)
}

func renderCheckResult(w io.Writer, r doctor.CheckResult) {
	symbol := ui.SymbolComplete
	style := ui.SuccessStyle()
	switch r.Status {
	case doctor.StatusWarn:
		style = ui.WarningStyle()
	case doctor.StatusFail:
		symbol = ui.SymbolFail
		style = ui.ErrorStyle()
	}

	fmt.Fprintf(w, "  %s %s\n", style.Render(symbol), r.Message)

	if r.Suggestion != "" && r.Status != doctor.StatusPass {
		for _, line := range strings.Split(r.Suggestion, "\n") {
			fmt.Fprintf(w, "    %s\n", ui.MutedStyle().Render(line))
		}
	}
}
