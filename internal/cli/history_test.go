package cli

import (
	"bytes"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vtarchitect/vtconsole/internal/api"
	"github.com/vtarchitect/vtconsole/internal/api/apitest"
	"github.com/vtarchitect/vtconsole/internal/errors"
	"github.com/vtarchitect/vtconsole/internal/fields"
	"github.com/vtarchitect/vtconsole/internal/timerange"
)

const ppmSeries = `[
	{"time": "2026-10-18T10:00:00Z", "value": 110},
	{"time": "2026-10-18T10:05:00Z", "value": 130},
	{"time": "2026-10-18T10:10:00Z", "value": 120}
]`

func historyOptions(field string) HistoryOptions {
	return HistoryOptions{Field: field, Range: timerange.Default(), Units: fields.NewUnits()}
}

func TestHistoryCommand_Text(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.SetSeries(ppmField, ppmSeries)

	var buf bytes.Buffer
	require.NoError(t, historyCommand(context.Background(), &buf, newTestClient(srv), historyOptions(ppmField)))
	out := plain(buf.String())

	assert.Contains(t, out, "Parts Per Minute")
	assert.Contains(t, out, "Past 1 hour")
	assert.Contains(t, out, "Summary")
	assert.Contains(t, out, "110.00 PPM")
	assert.Contains(t, out, "120.00 PPM")
	assert.Contains(t, out, "130.00 PPM")

	reqs := srv.Requests(apitest.RouteFloatRange)
	require.Len(t, reqs, 1)
	assert.Equal(t, ppmField, reqs[0].Query.Get("field"))
}

func TestHistoryCommand_Empty(t *testing.T) {
	srv := apitest.NewServer(t)

	var buf bytes.Buffer
	require.NoError(t, historyCommand(context.Background(), &buf, newTestClient(srv), historyOptions(ppmField)))
	assert.Contains(t, plain(buf.String()), "No data available for this range.")
}

func TestHistoryCommand_JSON(t *testing.T) {
	t.Run("with points", func(t *testing.T) {
		srv := apitest.NewServer(t)
		srv.SetSeries(ppmField, ppmSeries)

		opts := historyOptions(ppmField)
		opts.JSON = true
		var buf bytes.Buffer
		require.NoError(t, historyCommand(context.Background(), &buf, newTestClient(srv), opts))

		var out HistoryOutput
		decodeEnvelope(t, buf.Bytes(), &out)
		assert.Equal(t, ppmField, out.Field)
		assert.Equal(t, "PPM", out.Unit)
		require.NotNil(t, out.Summary)
		assert.Equal(t, 3, out.Summary.Count)
		assert.Equal(t, 120.0, out.Summary.Latest)
		assert.Len(t, out.Points, 3)
	})

	t.Run("empty series is an empty list", func(t *testing.T) {
		srv := apitest.NewServer(t)

		opts := historyOptions(ppmField)
		opts.JSON = true
		var buf bytes.Buffer
		require.NoError(t, historyCommand(context.Background(), &buf, newTestClient(srv), opts))

		assert.Contains(t, buf.String(), `"points": []`)
		assert.NotContains(t, buf.String(), `"summary"`)
	})
}

func TestHistoryCommand_Errors(t *testing.T) {
	srv := apitest.NewServer(t)

	err := historyCommand(context.Background(), &bytes.Buffer{}, newTestClient(srv), historyOptions(""))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
	assert.Empty(t, srv.Requests(apitest.RouteFloatRange), "no request without a field")

	srv.Fail(apitest.RouteFloatRange, http.StatusBadGateway, "")
	err = historyCommand(context.Background(), &bytes.Buffer{}, newTestClient(srv), historyOptions(ppmField))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP error! status: 502")
}

func TestSummarizeSeries(t *testing.T) {
	assert.Nil(t, summarizeSeries(nil))

	t0 := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	s := summarizeSeries([]api.FloatDataPoint{
		{Time: t0, Value: 4},
		{Time: t0.Add(time.Minute), Value: -2},
		{Time: t0.Add(2 * time.Minute), Value: 10},
	})
	require.NotNil(t, s)
	assert.Equal(t, SeriesSummary{
		Count:  3,
		Min:    -2,
		Max:    10,
		Avg:    4,
		Latest: 10,
		From:   t0,
		To:     t0.Add(2 * time.Minute),
	}, *s)
}
