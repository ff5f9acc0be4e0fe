package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vtarchitect/vtconsole/internal/config"
	"github.com/vtarchitect/vtconsole/internal/errors"
	"github.com/vtarchitect/vtconsole/internal/timerange"
)

// RangeFlags holds the --start and --stop flags shared by data commands.
type RangeFlags struct {
	Start string
	Stop  string
}

// AddRangeFlags registers --start and --stop on a command. Empty values
// fall back to the configured range.
func AddRangeFlags(cmd *cobra.Command, flags *RangeFlags) {
	cmd.Flags().StringVar(&flags.Start, "start", "", "range start: -1h, -3d, -1mo, or a date (default from config)")
	cmd.Flags().StringVar(&flags.Stop, "stop", "", "range stop: now() or a date (default from config)")
}

// Resolve merges the flags over cfg's range and validates the result.
func (f RangeFlags) Resolve(cfg *config.Config) (timerange.Range, error) {
	r := timerange.Range{Start: cfg.Range.Start, Stop: cfg.Range.Stop}
	if f.Start != "" {
		r.Start = f.Start
	}
	if f.Stop != "" {
		r.Stop = f.Stop
	}
	if err := timerange.Validate(r.Start, r.Stop); err != nil {
		return timerange.Range{}, err
	}
	return r, nil
}

// ParseInterval parses a refresh interval flag. An empty flag returns
// fallback.
func ParseInterval(flag string, fallback time.Duration) (time.Duration, error) {
	if flag == "" {
		return fallback, nil
	}

	interval, err := time.ParseDuration(flag)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid interval", flag),
			"Try something like 2s, 5s, or 1m.")
	}
	if interval < config.MinRefreshInterval {
		return 0, errors.New(errors.ErrConfig,
			"Interval too short",
			fmt.Sprintf("Minimum interval is %s to avoid overwhelming the server.", config.MinRefreshInterval))
	}
	return interval, nil
}
