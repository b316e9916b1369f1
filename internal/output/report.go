package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"swarmrun/internal/stats"
)

const (
	CommandRunParallel = "run-parallel"
	CommandStressTest  = "stress-test"
)

// Report is everything a Presenter needs to render one launcher run.
type Report struct {
	Command        string        `json:"command"`
	Trials         int           `json:"trials,omitempty"`
	Specs          int           `json:"specs"`
	ElapsedSeconds int64         `json:"elapsed_seconds"`
	Samples        stats.Samples `json:"samples"`
	Subjects       stats.Summary `json:"subjects"`
}

// NewReport builds a Report; elapsed is truncated to whole seconds.
func NewReport(command string, trials, specs int, elapsed time.Duration, samples stats.Samples, summary stats.Summary) Report {
	if summary == nil {
		summary = stats.Summary{}
	}
	return Report{
		Command:        command,
		Trials:         trials,
		Specs:          specs,
		ElapsedSeconds: int64(elapsed / time.Second),
		Samples:        samples,
		Subjects:       summary,
	}
}

// Presenter renders a Report.
type Presenter interface {
	Present(r Report) error
}

// NewPresenter returns the presenter for format ("text" or "json").
func NewPresenter(format string, w io.Writer) (Presenter, error) {
	if w == nil {
		w = os.Stdout
	}
	switch format {
	case "", "text":
		return &TextPresenter{writer: w}, nil
	case "json":
		return &JSONPresenter{writer: w}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
