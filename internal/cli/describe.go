package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/vtarchitect/vtconsole/internal/timerange"
)

// DescribeOutput is the --json form of the describe command.
type DescribeOutput struct {
	Start    string `json:"start"`
	Stop     string `json:"stop"`
	Label    string `json:"label"`
	Duration string `json:"duration"`
	// APIStart and APIStop are the values sent as query parameters.
	APIStart string `json:"api_start"`
	APIStop  string `json:"api_stop"`
}

// describeCommand prints the label and duration of a range. Unparseable
// dates are described leniently rather than rejected.
func describeCommand(w io.Writer, start, stop string, now time.Time, asJSON bool) error {
	if stop == "" {
		stop = timerange.Now
	}
	desc := timerange.DescribeAt(start, stop, now)

	if asJSON {
		return WriteJSONSuccess(w, DescribeOutput{
			Start:    start,
			Stop:     stop,
			Label:    desc.Label,
			Duration: desc.Duration,
			APIStart: timerange.ToAPIValue(start),
			APIStop:  timerange.ToAPIValue(stop),
		})
	}

	fmt.Fprintln(w, desc.Label)
	fmt.Fprintln(w, desc.Duration)
	return nil
}
