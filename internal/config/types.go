package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .vtconsole.yaml configuration file.
type Config struct {
	Version int           `yaml:"version" mapstructure:"version"`
	API     APIConfig     `yaml:"api" mapstructure:"api"`
	Refresh RefreshConfig `yaml:"refresh" mapstructure:"refresh"`
	Range   RangeConfig   `yaml:"range" mapstructure:"range"`
	History HistoryConfig `yaml:"history" mapstructure:"history"`
	Health  HealthConfig  `yaml:"health" mapstructure:"health"`
	Units   []UnitEntry   `yaml:"units" mapstructure:"units"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
}

// APIConfig points the console at a statistics backend.
type APIConfig struct {
	// BaseURL is the scheme and host of the backend, e.g. http://localhost:8000.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout bounds a single HTTP request.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// RefreshConfig controls how often each poller re-fetches.
type RefreshConfig struct {
	// Interval is the aggregate statistics refresh period. Zero disables polling.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// HistoryInterval is the float history refresh period. Zero disables polling.
	HistoryInterval time.Duration `yaml:"history_interval" mapstructure:"history_interval"`
}

// RangeConfig is the time range shown on startup.
type RangeConfig struct {
	Start string `yaml:"start" mapstructure:"start"`
	Stop  string `yaml:"stop" mapstructure:"stop"`
}

// HistoryConfig sizes the in-memory trend buffers.
type HistoryConfig struct {
	// Size is the number of polls kept per float field for trend sparklines.
	Size int `yaml:"size" mapstructure:"size"`
}

// HealthConfig names the float fields behind the health summary.
type HealthConfig struct {
	PartsPerMinuteField string `yaml:"parts_per_minute_field" mapstructure:"parts_per_minute_field"`
	AutoModeField       string `yaml:"auto_mode_field" mapstructure:"auto_mode_field"`
}

// UnitEntry maps a key leaf to a display unit. Viper folds map keys to lower
// case, so units are configured as a list to keep leaf names intact.
type UnitEntry struct {
	Leaf string `yaml:"leaf" mapstructure:"leaf"`
	Unit string `yaml:"unit" mapstructure:"unit"`
}

// OutputConfig controls terminal output.
type OutputConfig struct {
	// Color is one of auto, always, never.
	Color string `yaml:"color" mapstructure:"color"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		API: APIConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 10 * time.Second,
		},
		Refresh: RefreshConfig{
			Interval:        5 * time.Second,
			HistoryInterval: 5 * time.Second,
		},
		Range: RangeConfig{
			Start: "-1h",
			Stop:  "now()",
		},
		History: HistoryConfig{
			Size: 60,
		},
		Health: HealthConfig{
			PartsPerMinuteField: "Floats.Performance.PartsPerMinute",
			AutoModeField:       "SystemStatusBits.AutoMode",
		},
		Output: OutputConfig{
			Color: "auto",
		},
	}
}

// UnitMap returns the configured units keyed by leaf.
func (c *Config) UnitMap() map[string]string {
	out := make(map[string]string, len(c.Units))
	for _, u := range c.Units {
		out[u.Leaf] = u.Unit
	}
	return out
}
