package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vtarchitect/vtconsole/internal/api"
	"github.com/vtarchitect/vtconsole/internal/config"
	"github.com/vtarchitect/vtconsole/internal/errors"
	"github.com/vtarchitect/vtconsole/internal/fields"
	"github.com/vtarchitect/vtconsole/internal/logger"
	"github.com/vtarchitect/vtconsole/internal/ui"
)

// Global flags
var (
	cfgFile string
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "vtconsole",
	Short: "Terminal console for vibratory feeder statistics",
	Long: `vtconsole reads aggregate statistics from a feeder monitoring backend
and shows them as a live dashboard or as one-shot reports.

Examples:
  vtconsole dashboard
  vtconsole dashboard --start -6h
  vtconsole stats --json
  vtconsole history Floats.Performance.PartsPerMinute
  vtconsole upload machine.csv`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		mode := "auto"
		if cfg, _, err := config.LoadOrDefault(cfgFile); err == nil {
			mode = cfg.Output.Color
		}
		ui.ConfigureColors(mode, noColor || machineMode, os.Stdout)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .vtconsole.yaml, then ~/.config/vtconsole/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&machineMode, "json", false, "output JSON for scripts")
}

// Config returns the --config flag value.
func Config() string {
	return cfgFile
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(handleError(os.Stdout, os.Stderr, err))
	}
}

// handleError reports err in the active output mode and returns the exit code.
func handleError(stdout, stderr io.Writer, err error) int {
	if machineMode {
		_ = WriteJSONFromError(stdout, err)
		return 1
	}

	if isUnknownCommandError(err) {
		fmt.Fprintln(stderr, err)
		if name := extractUnknownCommand(err); name != "" {
			fmt.Fprintf(stderr, "Run 'vtconsole --help' to see available commands.\n")
		}
		return 1
	}

	fmt.Fprintln(stderr, err)
	return 1
}

// isUnknownCommandError reports whether cobra rejected the command line.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag")
}

// extractUnknownCommand pulls the command name out of cobra's
// `unknown command "foo" for "vtconsole"` message.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start < 0 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}

// loadConfig loads and validates the config for a command and registers
// configured units.
func loadConfig() (*config.Config, error) {
	cfg, _, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	fields.DefaultUnits.RegisterAll(cfg.UnitMap())
	return cfg, nil
}

// newClient builds an API client from cfg.
func newClient(cfg *config.Config) *api.Client {
	return api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, api.WithLogger(logger.NewEnvLogger("api")))
}

// requireArg returns a config error when value is empty.
func requireArg(value, name, example string) error {
	if strings.TrimSpace(value) != "" {
		return nil
	}
	return errors.New(errors.ErrConfig, name+" is required", "Example: "+example)
}
