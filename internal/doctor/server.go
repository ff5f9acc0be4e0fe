package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/vtarchitect/vtconsole/internal/api"
	"github.com/vtarchitect/vtconsole/internal/errors"
	"github.com/vtarchitect/vtconsole/internal/timerange"
)

// Backend is the part of api.Client the server checks use.
type Backend interface {
	BaseURL() string
	Stats(ctx context.Context, r timerange.Range) (*api.StatsResponse, error)
	FloatRange(ctx context.Context, field string, r timerange.Range) ([]api.FloatDataPoint, error)
}

// ServerOptions configures the SERVER checks.
type ServerOptions struct {
	Range               timerange.Range
	PartsPerMinuteField string
	AutoModeField       string
}

// NewServerChecks returns the SERVER checks against b.
func NewServerChecks(b Backend, opts ServerOptions) []Check {
	return []Check{
		&StatsEndpointCheck{Backend: b, Range: opts.Range},
		&HealthFieldsCheck{Backend: b, Range: opts.Range, PartsPerMinuteField: opts.PartsPerMinuteField, AutoModeField: opts.AutoModeField},
		&HistoryEndpointCheck{Backend: b, Range: opts.Range, Field: opts.PartsPerMinuteField},
	}
}

// StatsEndpointCheck verifies /api/stats answers and has data for the range.
type StatsEndpointCheck struct {
	Backend Backend
	Range   timerange.Range
}

func (c *StatsEndpointCheck) Name() string     { return "stats_endpoint" }
func (c *StatsEndpointCheck) Category() string { return CategoryServer }

func (c *StatsEndpointCheck) Run(ctx context.Context) CheckResult {
	start := time.Now()
	stats, err := c.Backend.Stats(ctx, c.Range)
	latency := time.Since(start)
	if err != nil {
		return fail(c,
			fmt.Sprintf("Couldn't reach %s: %s", c.Backend.BaseURL(), errors.Message(err)),
			"Check the server is running and api.base_url in .vtconsole.yaml points at it")
	}

	if stats.Empty() {
		desc := timerange.Describe(c.Range.Start, c.Range.Stop)
		return warn(c,
			fmt.Sprintf("Statistics endpoint answered in %s but has no data for %s", formatLatency(latency), desc.Label),
			"Upload a CSV with 'vtconsole upload <file>' or widen the range with --start")
	}
	return pass(c, fmt.Sprintf("Statistics endpoint answered in %s", formatLatency(latency)))
}

// HealthFieldsCheck verifies the fields behind the health summary exist in
// the snapshot.
type HealthFieldsCheck struct {
	Backend             Backend
	Range               timerange.Range
	PartsPerMinuteField string
	AutoModeField       string
}

func (c *HealthFieldsCheck) Name() string     { return "health_fields" }
func (c *HealthFieldsCheck) Category() string { return CategoryServer }

func (c *HealthFieldsCheck) Run(ctx context.Context) CheckResult {
	stats, err := c.Backend.Stats(ctx, c.Range)
	if err != nil {
		return fail(c, "Cannot check health fields: "+errors.Message(err), "")
	}
	if stats.Empty() {
		return warn(c, "Cannot check health fields: no data", "")
	}

	var missing []string
	if _, ok := stats.FloatAverages.Get(c.PartsPerMinuteField); !ok {
		missing = append(missing, c.PartsPerMinuteField)
	}
	if _, ok := stats.BooleanPercentages.Get(c.AutoModeField); !ok {
		missing = append(missing, c.AutoModeField)
	}

	switch len(missing) {
	case 0:
		return pass(c, "Health fields present")
	case 1:
		return warn(c, fmt.Sprintf("Health field %s is missing from the data", missing[0]),
			"Set health.parts_per_minute_field and health.auto_mode_field to keys the server reports")
	default:
		return warn(c, fmt.Sprintf("Health fields %s and %s are missing from the data", missing[0], missing[1]),
			"Set health.parts_per_minute_field and health.auto_mode_field to keys the server reports")
	}
}

// HistoryEndpointCheck verifies /api/float-range returns samples for Field.
type HistoryEndpointCheck struct {
	Backend Backend
	Range   timerange.Range
	Field   string
}

func (c *HistoryEndpointCheck) Name() string     { return "history_endpoint" }
func (c *HistoryEndpointCheck) Category() string { return CategoryServer }

func (c *HistoryEndpointCheck) Run(ctx context.Context) CheckResult {
	points, err := c.Backend.FloatRange(ctx, c.Field, c.Range)
	if err != nil {
		return fail(c, "History endpoint failed: "+errors.Message(err), "")
	}
	if len(points) == 0 {
		return warn(c, fmt.Sprintf("No history for %s", c.Field), "")
	}
	return pass(c, fmt.Sprintf("History endpoint returned %d sample%s", len(points), pluralize(len(points))))
}

func formatLatency(d time.Duration) string {
	if d < time.Millisecond {
		return "<1ms"
	}
	return d.Round(time.Millisecond).String()
}
