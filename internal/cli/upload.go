package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"

	"github.com/vtarchitect/vtconsole/internal/api"
	"github.com/vtarchitect/vtconsole/internal/errors"
	"github.com/vtarchitect/vtconsole/internal/ui"
)

// UploadOptions configures the upload command.
type UploadOptions struct {
	Path string
	// Yes skips the confirmation prompt.
	Yes bool
	// Interactive allows prompting. Without it the upload proceeds as if
	// Yes were set.
	Interactive bool
	JSON        bool
	// Progress receives the spinner. Nil disables it.
	Progress io.Writer
}

// UploadOutput is the --json form of the upload command.
type UploadOutput struct {
	File    string `json:"file"`
	Message string `json:"message"`
}

// confirmUpload asks before replacing the server's configuration. It is a
// variable so tests can answer for the user.
var confirmUpload = func(name, baseURL string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Upload '%s' to %s?", name, baseURL)).
				Description("The server converts the CSV and applies it as its new configuration.").
				Affirmative("Upload").
				Negative("Cancel").
				Value(&ok),
		),
	)
	if err := form.Run(); err != nil {
		return false, err
	}
	return ok, nil
}

// uploadCommand sends a CSV file to the backend.
func uploadCommand(ctx context.Context, w io.Writer, client *api.Client, opts UploadOptions) error {
	if err := api.CheckCSV(opts.Path); err != nil {
		return err
	}
	name := filepath.Base(opts.Path)

	if !opts.Yes && opts.Interactive && !opts.JSON {
		ok, err := confirmUpload(name, client.BaseURL())
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrUpload,
				"Failed to get user input",
				"Pass --yes to upload without confirming.")
		}
		if !ok {
			fmt.Fprintln(w, "Cancelled.")
			return nil
		}
	}

	var spinner *ui.Spinner
	if opts.Progress != nil && !opts.JSON {
		spinner = ui.NewSpinner("Uploading " + name)
		spinner.SetOutput(opts.Progress, opts.Progress == os.Stderr && ui.IsTerminal(os.Stderr))
		spinner.Start()
	}

	msg, err := client.UploadCSV(ctx, opts.Path)
	if spinner != nil {
		if err != nil {
			spinner.Fail("")
		} else {
			spinner.Success("")
		}
	}
	if err != nil {
		return err
	}

	if opts.JSON {
		return WriteJSONSuccess(w, UploadOutput{File: name, Message: msg})
	}
	fmt.Fprintf(w, "%s %s\n", ui.SuccessStyle().Render(ui.SymbolSuccess), msg)
	return nil
}
