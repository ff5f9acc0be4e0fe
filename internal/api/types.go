package api

import (
	"time"

	"github.com/vtarchitect/vtconsole/internal/fields"
)

// StatsResponse is the aggregate snapshot returned by /api/stats. Every map
// keeps the key order the server sent; a missing map decodes as empty.
type StatsResponse struct {
	ProjectMeta        fields.Map[string]  `json:"project_meta,omitempty"`
	SystemStatus       fields.Map[bool]    `json:"system_status"`
	BooleanPercentages fields.Map[float64] `json:"boolean_percentages"`
	FaultCounts        fields.Map[float64] `json:"fault_counts"`
	FloatAverages      fields.Map[float64] `json:"float_averages"`
}

// Empty reports whether the response carries no values at all.
func (s *StatsResponse) Empty() bool {
	return s == nil || (len(s.ProjectMeta) == 0 && len(s.SystemStatus) == 0 &&
		len(s.BooleanPercentages) == 0 && len(s.FaultCounts) == 0 && len(s.FloatAverages) == 0)
}

// FloatDataPoint is one sample of a float field.
type FloatDataPoint struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// UploadResult is the body of a successful CSV upload.
type UploadResult struct {
	Message string `json:"message"`
}
