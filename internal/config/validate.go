package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/vtarchitect/vtconsole/internal/errors"
	"github.com/vtarchitect/vtconsole/internal/timerange"
)

// MinRefreshInterval is the shortest accepted non-zero polling period.
const MinRefreshInterval = 500 * time.Millisecond

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but vtconsole only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade vtconsole or lower the version in .vtconsole.yaml.")
	}

	if err := validateAPI(cfg.API); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'api' section in your .vtconsole.yaml.")
	}

	if err := validateRefresh(cfg.Refresh); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'refresh' section in your .vtconsole.yaml.")
	}

	if err := timerange.Validate(cfg.Range.Start, cfg.Range.Stop); err != nil {
		return err
	}

	if cfg.History.Size < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("history.size can't be negative (got %d)", cfg.History.Size),
			"Use 0 for the default size.")
	}

	for i, u := range cfg.Units {
		if strings.TrimSpace(u.Leaf) == "" {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("units[%d] has an empty leaf", i),
				"Each unit needs a leaf name like 'Pressure' and a unit like 'bar'.")
		}
	}

	if err := validateOutput(cfg.Output); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'output' section in your .vtconsole.yaml.")
	}

	return nil
}

func validateAPI(api APIConfig) error {
	if api.BaseURL == "" {
		return fmt.Errorf("api.base_url is empty - point it at the statistics server, e.g. http://localhost:8000")
	}
	u, err := url.Parse(api.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("api.base_url '%s' isn't an http(s) URL", api.BaseURL)
	}
	if api.Timeout <= 0 {
		return fmt.Errorf("api.timeout needs to be positive (got %v)", api.Timeout)
	}
	return nil
}

func validateRefresh(r RefreshConfig) error {
	for _, d := range []struct {
		name  string
		value time.Duration
	}{
		{"refresh.interval", r.Interval},
		{"refresh.history_interval", r.HistoryInterval},
	} {
		if d.value < 0 {
			return fmt.Errorf("%s can't be negative", d.name)
		}
		if d.value > 0 && d.value < MinRefreshInterval {
			return fmt.Errorf("%s (%v) is shorter than %v - that would hammer the server", d.name, d.value, MinRefreshInterval)
		}
	}
	return nil
}

// validateOutput checks output configuration.
func validateOutput(out OutputConfig) error {
	validColors := map[string]bool{"auto": true, "always": true, "never": true, "": true}
	if !validColors[out.Color] {
		return fmt.Errorf("output.color '%s' isn't valid - use 'auto', 'always', or 'never'", out.Color)
	}
	return nil
}
