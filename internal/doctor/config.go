package doctor

import (
	"context"
	stderrors "errors"
	"fmt"
	"path/filepath"

	"github.com/vtarchitect/vtconsole/internal/config"
	"github.com/vtarchitect/vtconsole/internal/errors"
)

// NewConfigChecks returns the CONFIG checks for the given --config value.
func NewConfigChecks(explicit string) []Check {
	return []Check{
		&ConfigFileCheck{ConfigPath: explicit},
		&ConfigSchemaCheck{ConfigPath: explicit},
	}
}

// ConfigFileCheck verifies that a config file can be found. Running on
// defaults is allowed, so a missing file only warns.
type ConfigFileCheck struct {
	ConfigPath string // Explicit path, or empty to search
}

func (c *ConfigFileCheck) Name() string     { return "config_file" }
func (c *ConfigFileCheck) Category() string { return CategoryConfig }

func (c *ConfigFileCheck) Run(context.Context) CheckResult {
	path, err := config.Find(c.ConfigPath)
	if err != nil {
		return fail(c, errors.Message(err), suggestion(err))
	}
	if path == "" {
		return warn(c, "No config file found, using defaults",
			"Run 'vtconsole init' to create a .vtconsole.yaml config file")
	}
	return pass(c, fmt.Sprintf("Config file: %s", filepath.Base(path)))
}

// ConfigSchemaCheck loads and validates the config, defaults included.
type ConfigSchemaCheck struct {
	ConfigPath string
}

func (c *ConfigSchemaCheck) Name() string     { return "config_schema" }
func (c *ConfigSchemaCheck) Category() string { return CategoryConfig }

func (c *ConfigSchemaCheck) Run(context.Context) CheckResult {
	cfg, _, err := config.LoadOrDefault(c.ConfigPath)
	if err != nil {
		return fail(c, "Failed to load config: "+errors.Message(err), suggestion(err))
	}
	if err := config.Validate(cfg); err != nil {
		return fail(c, "Config is invalid: "+errors.Message(err), suggestion(err))
	}
	return pass(c, fmt.Sprintf("Config is valid (backend %s)", cfg.API.BaseURL))
}

func suggestion(err error) string {
	var vtErr *errors.Error
	if stderrors.As(err, &vtErr) {
		return vtErr.Suggestion
	}
	return ""
}
