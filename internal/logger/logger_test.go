package logger

import (
	"bytes"
	"log"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureLog redirects the standard logger into a buffer for one test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	flags := log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(flags)
	})
	return &buf
}

func TestEnvLogger_Levels(t *testing.T) {
	tests := []struct {
		name  string
		debug string
		emit  func(Logger)
		want  string
	}{
		{"debug on", "1", func(l Logger) { l.Debug("GET %s", "/api/stats") }, "[api] GET /api/stats\n"},
		{"debug any value", "true", func(l Logger) { l.Debug("seq %d", 4) }, "[api] seq 4\n"},
		{"debug off", "", func(l Logger) { l.Debug("GET %s", "/api/stats") }, ""},
		{"info", "", func(l Logger) { l.Info("polling every %s", "5s") }, "[api] polling every 5s\n"},
		{"warn", "", func(l Logger) { l.Warn("slow response") }, "[api] WARN: slow response\n"},
		{"error", "", func(l Logger) { l.Error("status %d", 502) }, "[api] ERROR: status 502\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLog(t)
			t.Setenv(DebugEnv, tt.debug)

			tt.emit(NewEnvLogger("[api]"))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestNoopLogger(t *testing.T) {
	buf := captureLog(t)

	l := Noop()
	l.Debug("debug")
	l.Info("info")
	l.Warn("warn")
	l.Error("error")

	assert.Empty(t, buf.String())
}

func TestBufferLogger(t *testing.T) {
	l := NewBufferLogger()
	assert.False(t, l.HasLevel("debug"))

	l.Debug("fetch %d issued", 1)
	l.Info("range %s", "-1h")
	l.Warn("discarded seq %d", 1)
	l.Error("HTTP error! status: %d", 500)

	assert.Equal(t, []LogMessage{
		{Level: "debug", Message: "fetch 1 issued"},
		{Level: "info", Message: "range -1h"},
		{Level: "warn", Message: "discarded seq 1"},
		{Level: "error", Message: "HTTP error! status: 500"},
	}, l.Snapshot())
	assert.True(t, l.HasLevel("warn"))

	l.Clear()
	assert.Empty(t, l.Snapshot())
	assert.False(t, l.HasLevel("warn"))
}

func TestBufferLogger_ConcurrentWrites(t *testing.T) {
	l := NewBufferLogger()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			l.Debug("fetch %d settled", n)
		}(i)
	}
	wg.Wait()

	require.Len(t, l.Snapshot(), 8)
}

func TestDefault(t *testing.T) {
	original := Default()
	t.Cleanup(func() { SetDefault(original) })

	require.NotNil(t, original)

	buf := NewBufferLogger()
	SetDefault(buf)
	assert.Same(t, buf, Default())
}

func TestDebugEnabled(t *testing.T) {
	t.Setenv(DebugEnv, "1")
	assert.True(t, DebugEnabled())

	t.Setenv(DebugEnv, "")
	assert.False(t, DebugEnabled())
}
