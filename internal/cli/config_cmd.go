package cli

import (
	"fmt"
	"io"

	"github.com/vtarchitect/vtconsole/internal/config"
	"github.com/vtarchitect/vtconsole/internal/errors"
	"github.com/vtarchitect/vtconsole/internal/ui"
)

// ConfigShowOutput is the --json form of config show.
type ConfigShowOutput struct {
	Path   string         `json:"path,omitempty"`
	Config *config.Config `json:"config"`
}

// configSetCommand writes key=value into the active config file and checks
// the result still validates.
func configSetCommand(w io.Writer, explicit, key, value string) error {
	path, err := config.Find(explicit)
	if err != nil {
		return err
	}
	if path == "" {
		return errors.New(errors.ErrConfig,
			"No config file found",
			"Run 'vtconsole init' to create one.")
	}

	if err := config.SetValue(path, key, value); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Couldn't set %s", key),
			"Keys are dotted paths like range.start or api.base_url.")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		ui.PrintWarning(fmt.Sprintf("%s was written but the config no longer validates", path))
		return err
	}

	fmt.Fprintf(w, "%s Set %s = %s in %s\n", ui.SymbolSuccess, key, value, path)
	return nil
}

// configShowCommand prints the effective config, defaults and environment
// overrides included.
func configShowCommand(w io.Writer, explicit string, asJSON bool) error {
	cfg, path, err := config.LoadOrDefault(explicit)
	if err != nil {
		return err
	}

	if asJSON {
		return WriteJSONSuccess(w, ConfigShowOutput{Path: path, Config: cfg})
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to render config", "")
	}
	if path == "" {
		path = "defaults (no config file found)"
	}
	fmt.Fprintln(w, ui.MutedStyle().Render("# "+path))
	fmt.Fprint(w, string(data))
	return nil
}
