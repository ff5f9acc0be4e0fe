package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vtarchitect/vtconsole/internal/errors"
	"github.com/vtarchitect/vtconsole/internal/fields"
	"github.com/vtarchitect/vtconsole/internal/ui"
)

// Command-specific flags
var (
	dashboardRange    RangeFlags
	dashboardInterval string
	statsRange        RangeFlags
	statsPercentages  bool
	historyRange      RangeFlags
	uploadYes         bool
	initBaseURL       string
	initForce         bool
	initNonInteract   bool
	initNoCheck       bool
)

// dashboardCmd starts the full-screen dashboard
var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash", "monitor"},
	Short:   "Live statistics dashboard",
	Long: `Start a full-screen dashboard that polls the statistics server.

Shows project information, a health summary, boolean status sections,
float averages with trend sparklines, a time-series graph for one float
field, and fault counts.

Keyboard shortcuts:
  q / Ctrl+C  Quit
  r           Refresh now
  t / T       Next / previous time range
  f / F       Next / previous history field
  j / k       Scroll
  ?           Show help

Examples:
  vtconsole dashboard
  vtconsole dashboard --start -6h
  vtconsole dashboard --start 2026-10-01 --stop 2026-10-02 --interval 30s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return dashboardCommand(cfg, dashboardRange, dashboardInterval)
	},
}

// statsCmd prints one aggregate snapshot
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print aggregate statistics for a time range",
	Long: `Fetch /api/stats once and print project information, health,
status shares, float averages, and fault counts.

Examples:
  vtconsole stats
  vtconsole stats --start -1d --percentages
  vtconsole stats --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		r, err := statsRange.Resolve(cfg)
		if err != nil {
			return err
		}
		return statsCommand(cmd.Context(), cmd.OutOrStdout(), newClient(cfg), StatsOptions{
			Range:               r,
			Percentages:         statsPercentages,
			PartsPerMinuteField: cfg.Health.PartsPerMinuteField,
			AutoModeField:       cfg.Health.AutoModeField,
			JSON:                machineMode,
			Progress:            os.Stderr,
		})
	},
}

// historyCmd prints one float series
var historyCmd = &cobra.Command{
	Use:   "history <field>",
	Short: "Print a float field's history as a sparkline",
	Long: `Fetch /api/float-range for one float field and print a sparkline with
min, average, max, and the latest value.

Examples:
  vtconsole history Floats.Performance.PartsPerMinute
  vtconsole history Floats.AirTrackBlower.Temperature --start -1w`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		r, err := historyRange.Resolve(cfg)
		if err != nil {
			return err
		}
		return historyCommand(cmd.Context(), cmd.OutOrStdout(), newClient(cfg), HistoryOptions{
			Field: args[0],
			Range: r,
			JSON:  machineMode,
		})
	},
}

// describeCmd explains a time range
var describeCmd = &cobra.Command{
	Use:   "describe <start> [stop]",
	Short: "Show the label and duration of a time range",
	Long: `Describe a start/stop pair the way the dashboard header does.

Examples:
  vtconsole describe -3h
  vtconsole describe 2026-10-01 2026-10-02`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		stop := ""
		if len(args) > 1 {
			stop = args[1]
		}
		return describeCommand(cmd.OutOrStdout(), args[0], stop, time.Now(), machineMode)
	},
}

// uploadCmd sends a CSV configuration to the server
var uploadCmd = &cobra.Command{
	Use:   "upload <file.csv>",
	Short: "Upload a CSV configuration to the server",
	Long: `Upload a CSV file to /api/upload-csv. The server converts it and applies
it as its new configuration, so you are asked to confirm first.

Examples:
  vtconsole upload machine.csv
  vtconsole upload machine.csv --yes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return uploadCommand(cmd.Context(), cmd.OutOrStdout(), newClient(cfg), UploadOptions{
			Path:        args[0],
			Yes:         uploadYes,
			Interactive: ui.IsTerminal(os.Stdin) && ui.IsTerminal(os.Stdout),
			JSON:        machineMode,
			Progress:    os.Stderr,
		})
	},
}

// initCmd creates a new .vtconsole.yaml configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .vtconsole.yaml configuration",
	Long: `Create a .vtconsole.yaml file in the current directory with sensible
defaults, after checking the statistics server answers.

Examples:
  vtconsole init
  vtconsole init --base-url http://feeder-01:8000
  vtconsole init --non-interactive --no-check --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Init(cmd.OutOrStdout(), InitOptions{
			Path:           cfgFile,
			BaseURL:        initBaseURL,
			Overwrite:      initForce,
			NonInteractive: initNonInteract || !ui.IsTerminal(os.Stdin),
			SkipCheck:      initNoCheck,
		})
	},
}

// configCmd groups config subcommands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a value in the config file",
	Long: `Set a dotted key in the active config file. Comments are preserved.

Examples:
  vtconsole config set range.start -6h
  vtconsole config set api.base_url http://feeder-01:8000`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return configSetCommand(cmd.OutOrStdout(), cfgFile, args[0], args[1])
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowCommand(cmd.OutOrStdout(), cfgFile, machineMode)
	},
}

// unitsCmd lists the unit table
var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "List the units shown next to float values",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(); err != nil {
			return err
		}
		return unitsCommand(cmd.OutOrStdout(), fields.DefaultUnits, machineMode)
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for vtconsole.

Examples:
  # Bash
  vtconsole completion bash > /etc/bash_completion.d/vtconsole

  # Zsh
  vtconsole completion zsh > "${fpath[1]}/_vtconsole"

  # Fish
  vtconsole completion fish > ~/.config/fish/completions/vtconsole.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(out)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(out)
		default:
			return errors.New(errors.ErrConfig,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	AddRangeFlags(dashboardCmd, &dashboardRange)
	dashboardCmd.Flags().StringVar(&dashboardInterval, "interval", "", "refresh interval, e.g. 2s, 5s, 1m (default from config)")

	AddRangeFlags(statsCmd, &statsRange)
	statsCmd.Flags().BoolVar(&statsPercentages, "percentages", false, "also fetch status shares from /api/percentages")

	AddRangeFlags(historyCmd, &historyRange)

	uploadCmd.Flags().BoolVarP(&uploadYes, "yes", "y", false, "upload without asking")

	initCmd.Flags().StringVar(&initBaseURL, "base-url", "", "statistics server address")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")
	initCmd.Flags().BoolVar(&initNonInteract, "non-interactive", false, "don't prompt, use defaults and flags")
	initCmd.Flags().BoolVar(&initNoCheck, "no-check", false, "don't test the server before saving")

	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configShowCmd)

	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(unitsCmd)
	rootCmd.AddCommand(completionCmd)
}
