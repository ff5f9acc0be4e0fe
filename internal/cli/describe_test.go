package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribeCommand(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		start    string
		stop     string
		label    string
		duration string
	}{
		{"relative hours", "-3h", "", "Past 3 hours", "3h 0m"},
		{"relative single", "-1d", "now()", "Past 1 day", "24h 0m"},
		{"invalid start is lenient", "yesterday", "", "Up to", "NaNh NaNm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, describeCommand(&buf, tt.start, tt.stop, now, false))

			lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
			require.Len(t, lines, 2)
			assert.Contains(t, lines[0], tt.label)
			assert.Equal(t, tt.duration, lines[1])
		})
	}
}

func TestDescribeCommand_JSON(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	require.NoError(t, describeCommand(&buf, "-3h", "", now, true))

	var out DescribeOutput
	env := decodeEnvelope(t, buf.Bytes(), &out)
	assert.True(t, env.Success)
	assert.Equal(t, DescribeOutput{
		Start:    "-3h",
		Stop:     "now()",
		Label:    "Past 3 hours",
		Duration: "3h 0m",
		APIStart: "-3h",
		APIStop:  "now()",
	}, out)
}
