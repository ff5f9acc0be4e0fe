package api

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vtarchitect/vtconsole/internal/api/apitest"
	"github.com/vtarchitect/vtconsole/internal/errors"
	"github.com/vtarchitect/vtconsole/internal/logger"
	"github.com/vtarchitect/vtconsole/internal/timerange"
)

const statsBody = `{
	"project_meta": {"Project Name": "Line 4", "Project Number": "P-1182"},
	"system_status": {"AutoMode": true, "EStop": false},
	"boolean_percentages": {"SystemStatusBits.AutoMode": 92.5, "BowlFeeder.Running": 80},
	"fault_counts": {"FaultBits.JamInOrientation": 4, "FaultBits.AirPressureLow": 0},
	"float_averages": {"Floats.Performance.PartsPerMinute": 118.25}
}`

func newTestClient(t *testing.T) (*Client, *apitest.Server) {
	srv := apitest.NewServer(t)
	return NewClient(srv.URL, 2*time.Second), srv
}

func TestStats(t *testing.T) {
	client, srv := newTestClient(t)
	srv.SetStats(statsBody)

	stats, err := client.Stats(context.Background(), timerange.Range{Start: "-3h", Stop: timerange.Now})
	require.NoError(t, err)

	assert.Equal(t, []string{"Project Name", "Project Number"}, stats.ProjectMeta.Keys())
	assert.Equal(t, []string{"SystemStatusBits.AutoMode", "BowlFeeder.Running"}, stats.BooleanPercentages.Keys())
	auto, ok := stats.SystemStatus.Get("AutoMode")
	require.True(t, ok)
	assert.True(t, auto)
	ppm, _ := stats.FloatAverages.Get("Floats.Performance.PartsPerMinute")
	assert.Equal(t, 118.25, ppm)
	assert.False(t, stats.Empty())

	reqs := srv.Requests(apitest.RouteStats)
	require.Len(t, reqs, 1)
	assert.Equal(t, "-3h", reqs[0].Query.Get("start"))
	assert.Equal(t, "now()", reqs[0].Query.Get("stop"))
}

func TestStats_MissingMapsDecodeEmpty(t *testing.T) {
	client, srv := newTestClient(t)
	srv.SetStats(`{"fault_counts": null}`)

	stats, err := client.Stats(context.Background(), timerange.Default())
	require.NoError(t, err)
	assert.Empty(t, stats.ProjectMeta)
	assert.Empty(t, stats.FaultCounts)
	assert.Empty(t, stats.FloatAverages)
	assert.True(t, stats.Empty())
}

func TestStats_AbsoluteRangeIsNormalized(t *testing.T) {
	client, srv := newTestClient(t)

	_, err := client.Stats(context.Background(), timerange.Range{
		Start: "2026-10-01T02:00:00+02:00",
		Stop:  "2026-10-02",
	})
	require.NoError(t, err)

	q := srv.Requests(apitest.RouteStats)[0].Query
	assert.Equal(t, "2026-10-01T00:00:00Z", q.Get("start"))
	assert.Equal(t, "2026-10-02T00:00:00Z", q.Get("stop"))
}

func TestStats_HTTPError(t *testing.T) {
	client, srv := newTestClient(t)
	srv.Fail(apitest.RouteStats, http.StatusInternalServerError, "")

	_, err := client.Stats(context.Background(), timerange.Default())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrHTTP))
	assert.Equal(t, "HTTP error! status: 500", errors.Message(err))
}

func TestStats_DecodeError(t *testing.T) {
	client, srv := newTestClient(t)
	srv.SetStats(`{"boolean_percentages": [1, 2]}`)

	_, err := client.Stats(context.Background(), timerange.Default())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrDecode))
}

func TestStats_TransportError(t *testing.T) {
	srv := apitest.NewServer(t)
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).Stats(context.Background(), timerange.Default())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrHTTP))
}

func TestStats_ContextCancelled(t *testing.T) {
	client, srv := newTestClient(t)
	srv.Delay(apitest.RouteStats, 5*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.Stats(ctx, timerange.Default())
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestFloatRange(t *testing.T) {
	client, srv := newTestClient(t)
	srv.SetSeries("Floats.AirTrackBlower.Speed", `[
		{"time": "2026-10-18T11:00:00Z", "value": 41.5},
		{"time": "2026-10-18T11:00:05Z", "value": 42}
	]`)

	points, err := client.FloatRange(context.Background(), "Floats.AirTrackBlower.Speed", timerange.Default())
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, time.Date(2026, 10, 18, 11, 0, 0, 0, time.UTC), points[0].Time.UTC())
	assert.Equal(t, 42.0, points[1].Value)

	assert.Equal(t, "Floats.AirTrackBlower.Speed", srv.Requests(apitest.RouteFloatRange)[0].Query.Get("field"))
}

func TestFloatRange_UnknownFieldIsEmpty(t *testing.T) {
	client, _ := newTestClient(t)

	points, err := client.FloatRange(context.Background(), "Floats.Nope.Nope", timerange.Default())
	require.NoError(t, err)
	assert.NotNil(t, points)
	assert.Empty(t, points)
}

func TestFloatRange_BadRequest(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.FloatRange(context.Background(), "", timerange.Default())
	require.Error(t, err)
	assert.Equal(t, "HTTP error! status: 400", errors.Message(err))
}

func TestPercentages(t *testing.T) {
	client, srv := newTestClient(t)
	srv.SetPercentages(`{"B.x": 10, "A.y": 20}`)

	got, err := client.Percentages(context.Background(), timerange.Default())
	require.NoError(t, err)
	assert.Equal(t, []string{"B.x", "A.y"}, got.Keys())
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestUploadCSV(t *testing.T) {
	log := logger.NewBufferLogger()
	srv := apitest.NewServer(t)
	client := NewClient(srv.URL, time.Second, WithLogger(log))

	path := writeFile(t, "architect.csv", "name,type\nAutoMode,bool\n")
	msg, err := client.UploadCSV(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, msg, "File 'architect.csv' uploaded")

	uploads := srv.Uploads()
	require.Len(t, uploads, 1)
	assert.Equal(t, "architect.csv", uploads[0].Filename)
	assert.Equal(t, CSVContentType, uploads[0].ContentType)
	assert.Equal(t, "name,type\nAutoMode,bool\n", uploads[0].Content)
	assert.True(t, log.HasLevel("debug"))
}

func TestUploadCSV_RejectsNonCSVBeforeRequest(t *testing.T) {
	client, srv := newTestClient(t)
	path := writeFile(t, "architect.xlsx", "not csv")

	_, err := client.UploadCSV(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrUpload))
	assert.Equal(t, "Invalid file type. Please upload a CSV file.", errors.Message(err))
	assert.Empty(t, srv.Requests(apitest.RouteUpload))
}

func TestUploadCSV_TooLarge(t *testing.T) {
	client, srv := newTestClient(t)
	path := writeFile(t, "big.csv", strings.Repeat("x", MaxUploadSize+1))

	_, err := client.UploadCSV(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, errors.Message(err), "too large")
	assert.Empty(t, srv.Uploads())
}

func TestUploadCSV_ServerMessage(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"json message", "Failed to process CSV file: bad header", "Failed to process CSV file: bad header"},
		{"plain body", "", "upload failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, srv := newTestClient(t)
			srv.Fail(apitest.RouteUpload, http.StatusBadRequest, tt.message)

			_, err := client.UploadCSVReader(context.Background(), "a.csv", strings.NewReader("a,b\n"))
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrUpload))
			assert.Equal(t, tt.want, errors.Message(err))
		})
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("http://host:1/", 0)
	assert.Equal(t, "http://host:1", c.BaseURL())
	assert.Equal(t, DefaultTimeout, c.http.Timeout)
}
