package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vterrors "github.com/vtarchitect/vtconsole/internal/errors"
)

func TestIsUnknownCommandError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unknown command", errors.New(`unknown command "foo" for "vtconsole"`), true},
		{"unknown flag", errors.New(`unknown flag: --foo`), true},
		{"other error", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUnknownCommandError(tt.err))
		})
	}
}

func TestExtractUnknownCommand(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"standard cobra format", errors.New(`unknown command "foo" for "vtconsole"`), "foo"},
		{"command with hyphen", errors.New(`unknown command "dash-board" for "vtconsole"`), "dash-board"},
		{"no quotes", errors.New("unknown command foo"), ""},
		{"single quote", errors.New(`unknown command "foo`), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractUnknownCommand(tt.err))
		})
	}
}

func TestHandleError(t *testing.T) {
	t.Run("unknown command prints a hint", func(t *testing.T) {
		withMachineMode(t, false)
		var stdout, stderr bytes.Buffer

		code := handleError(&stdout, &stderr, errors.New(`unknown command "foo" for "vtconsole"`))
		assert.Equal(t, 1, code)
		assert.Empty(t, stdout.String())
		assert.Contains(t, stderr.String(), "vtconsole --help")
	})

	t.Run("plain error goes to stderr", func(t *testing.T) {
		withMachineMode(t, false)
		var stdout, stderr bytes.Buffer

		code := handleError(&stdout, &stderr, vterrors.New(vterrors.ErrHTTP, "HTTP error! status: 502", ""))
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr.String(), "HTTP error! status: 502")
		assert.NotContains(t, stderr.String(), "--help")
	})

	t.Run("machine mode writes an envelope", func(t *testing.T) {
		withMachineMode(t, true)
		var stdout, stderr bytes.Buffer

		code := handleError(&stdout, &stderr, vterrors.New(vterrors.ErrRange, "Start is after stop", ""))
		assert.Equal(t, 1, code)
		assert.Empty(t, stderr.String())

		var env JSONEnvelope
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &env))
		assert.False(t, env.Success)
		assert.Equal(t, ErrCodeInvalidRange, env.Error.Code)
	})
}

func TestRequireArg(t *testing.T) {
	assert.NoError(t, requireArg("Floats.A.B", "field", "x"))

	err := requireArg("  ", "field", "vtconsole history Floats.Performance.PartsPerMinute")
	require.Error(t, err)
	assert.True(t, vterrors.IsCode(err, vterrors.ErrConfig))
	assert.Contains(t, err.Error(), "field is required")
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"dashboard", "stats", "history", "describe", "upload", "init", "config", "units", "doctor", "version", "completion"} {
		assert.Contains(t, names, want)
	}
}
