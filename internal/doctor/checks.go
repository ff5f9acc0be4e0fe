package doctor

import (
	"context"
	"fmt"
	"sync"
)

// Categories, in report order.
const (
	CategoryConfig   = "CONFIG"
	CategoryServer   = "SERVER"
	CategoryTerminal = "TERMINAL"
)

// CategoryOrder is the order categories are reported in.
var CategoryOrder = []string{CategoryConfig, CategoryServer, CategoryTerminal}

// CheckStatus represents the result status of a check.
type CheckStatus int

const (
	StatusPass CheckStatus = iota
	StatusWarn
	StatusFail
)

// String returns a human-readable status string.
func (s CheckStatus) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status by name so JSON reports stay readable.
func (s CheckStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (s *CheckStatus) UnmarshalText(text []byte) error {
	switch string(text) {
	case "pass":
		*s = StatusPass
	case "warn":
		*s = StatusWarn
	case "fail":
		*s = StatusFail
	default:
		return fmt.Errorf("unknown check status %q", text)
	}
	return nil
}

// CheckResult contains the outcome of running a check.
type CheckResult struct {
	Name       string      `json:"name"`
	Category   string      `json:"category"`
	Status     CheckStatus `json:"status"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// Check is one diagnostic.
type Check interface {
	// Name returns the check's identifier.
	Name() string

	// Category returns one of the Category constants.
	Category() string

	// Run executes the check. Checks that talk to the backend honor ctx.
	Run(ctx context.Context) CheckResult
}

// RunAll executes checks concurrently and returns results in check order.
func RunAll(ctx context.Context, checks []Check) []CheckResult {
	results := make([]CheckResult, len(checks))
	var wg sync.WaitGroup

	for i, check := range checks {
		wg.Add(1)
		go func(idx int, c Check) {
			defer wg.Done()
			r := c.Run(ctx)
			if r.Name == "" {
				r.Name = c.Name()
			}
			if r.Category == "" {
				r.Category = c.Category()
			}
			results[idx] = r
		}(i, check)
	}

	wg.Wait()
	return results
}

// GroupByCategory buckets results by category, keeping CategoryOrder and
// the original order within a category. Unknown categories come last.
func GroupByCategory(results []CheckResult) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, cat := range CategoryOrder {
		index[cat] = len(groups)
		groups = append(groups, Group{Name: cat})
	}

	for _, r := range results {
		i, ok := index[r.Category]
		if !ok {
			i = len(groups)
			index[r.Category] = i
			groups = append(groups, Group{Name: r.Category})
		}
		groups[i].Results = append(groups[i].Results, r)
	}

	out := groups[:0]
	for _, g := range groups {
		if len(g.Results) > 0 {
			out = append(out, g)
		}
	}
	return out
}

// Group is the results of one category.
type Group struct {
	Name    string        `json:"name"`
	Results []CheckResult `json:"results"`
}

// CountByStatus counts results by status.
func CountByStatus(results []CheckResult) map[CheckStatus]int {
	counts := make(map[CheckStatus]int)
	for _, r := range results {
		counts[r.Status]++
	}
	return counts
}

// HasFailures returns true if any result has a fail status.
func HasFailures(results []CheckResult) bool {
	for _, r := range results {
		if r.Status == StatusFail {
			return true
		}
	}
	return false
}

// HasIssues returns true if any result has a fail or warn status.
func HasIssues(results []CheckResult) bool {
	for _, r := range results {
		if r.Status != StatusPass {
			return true
		}
	}
	return false
}

// Summary returns a one-line summary of the results.
func Summary(results []CheckResult) string {
	counts := CountByStatus(results)
	total := counts[StatusWarn] + counts[StatusFail]
	if total == 0 {
		return "Everything looks good"
	}
	return fmt.Sprintf("%d issue%s found", total, pluralize(total))
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func pass(c Check, msg string) CheckResult {
	return CheckResult{Name: c.Name(), Category: c.Category(), Status: StatusPass, Message: msg}
}

func warn(c Check, msg, suggestion string) CheckResult {
	return CheckResult{Name: c.Name(), Category: c.Category(), Status: StatusWarn, Message: msg, Suggestion: suggestion}
}

func fail(c Check, msg, suggestion string) CheckResult {
	return CheckResult{Name: c.Name(), Category: c.Category(), Status: StatusFail, Message: msg, Suggestion: suggestion}
}
