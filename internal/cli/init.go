package cli

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/vtarchitect/vtconsole/internal/api"
	"github.com/vtarchitect/vtconsole/internal/config"
	"github.com/vtarchitect/vtconsole/internal/errors"
	"github.com/vtarchitect/vtconsole/internal/timerange"
	"github.com/vtarchitect/vtconsole/internal/ui"
)

// initProbeTimeout bounds the connection test before saving.
const initProbeTimeout = 10 * time.Second

// InitOptions holds options for the init command.
type InitOptions struct {
	Path           string // Where to write; defaults to ./.vtconsole.yaml
	BaseURL        string // Pre-specified backend address
	Overwrite      bool   // Overwrite existing config without asking
	NonInteractive bool   // Skip prompts, use defaults
	SkipCheck      bool   // Don't test the backend before saving
}

// Init creates a new .vtconsole.yaml configuration file.
func Init(w io.Writer, opts InitOptions) error {
	configPath := opts.Path
	if configPath == "" {
		configPath = filepath.Join(".", config.ConfigFileName)
	}

	if _, err := os.Stat(configPath); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", configPath)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(w, "Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	baseURL := opts.BaseURL

	if !opts.NonInteractive && baseURL == "" {
		baseURL = cfg.API.BaseURL
		startPreset := cfg.Range.Start
		options := make([]huh.Option[string], len(timerange.Presets))
		for i, p := range timerange.Presets {
			options[i] = huh.NewOption(p.Label, p.Start)
		}

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Statistics server").
					Description("Base URL of the backend serving /api/stats").
					Placeholder(cfg.API.BaseURL).
					Value(&baseURL).
					Validate(validateBaseURL),
			),
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Default time range").
					Options(options...).
					Value(&startPreset),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Check terminal compatibility or use --non-interactive")
		}
		cfg.Range.Start = startPreset
	}

	if baseURL != "" {
		if err := validateBaseURL(baseURL); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Use something like http://localhost:8000")
		}
		cfg.API.BaseURL = strings.TrimRight(baseURL, "/")
	}

	if !opts.SkipCheck {
		if err := probeBackend(w, cfg, opts.NonInteractive); err != nil {
			return err
		}
	}

	if err := config.Write(configPath, cfg, true); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to write config file: %s", configPath),
			"Check directory permissions")
	}

	fmt.Fprintf(w, "%s Created %s\n\n", ui.SymbolSuccess, configPath)
	fmt.Fprintln(w, "Next steps:")
	fmt.Fprintln(w, "  vtconsole dashboard  - Open the live dashboard")
	fmt.Fprintln(w, "  vtconsole stats      - Print a one-shot report")
	return nil
}

// probeBackend fetches stats once so a bad address is caught before saving.
// Interactive runs may save anyway.
func probeBackend(w io.Writer, cfg *config.Config, nonInteractive bool) error {
	spinner := ui.NewSpinner("Testing connection to " + cfg.API.BaseURL)
	spinner.SetOutput(w, false)
	spinner.Start()

	ctx, cancel := context.WithTimeout(context.Background(), initProbeTimeout)
	defer cancel()

	client := api.NewClient(cfg.API.BaseURL, initProbeTimeout)
	_, err := client.Stats(ctx, timerange.Default())
	if err == nil {
		spinner.Success("")
		return nil
	}
	spinner.Fail("")

	failure := errors.WrapWithCode(err, errors.ErrHTTP,
		fmt.Sprintf("Couldn't reach %s", cfg.API.BaseURL),
		"Check the server is running, or pass --no-check to save anyway.")
	if nonInteractive {
		return failure
	}

	var saveAnyway bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save config anyway? (You can start the server later)").
				Value(&saveAnyway),
		),
	)
	if formErr := form.Run(); formErr != nil || !saveAnyway {
		return failure
	}
	return nil
}

func validateBaseURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("'%s' isn't an http(s) URL", s)
	}
	return nil
}
