package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/fixspec/packages/core/config"
	"github.com/abdul-hamid-achik/fixspec/packages/core/runner"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	RunID    string      `json:"runId,omitempty"`
	Script   string      `json:"script"`
	Summary  JSONSummary `json:"summary"`
	Tests    []JSONTest  `json:"tests"`
	Error    string      `json:"error,omitempty"`
	Duration float64     `json:"duration"`
	Time     string      `json:"time"`
}

// JSONSummary represents the run summary
type JSONSummary struct {
	Total         int     `json:"total"`
	Passed        int     `json:"passed"`
	Failed        int     `json:"failed"`
	PassedPercent float64 `json:"passedPercent"`
	FailedPercent float64 `json:"failedPercent"`
}

// JSONTest represents a single fixture result
type JSONTest struct {
	Name         string  `json:"name"`
	Input        string  `json:"input"`
	ExpectedFile string  `json:"expectedFile"`
	Passed       bool    `json:"passed"`
	Duration     float64 `json:"duration"`
	ExitCode     int     `json:"exitCode"`
	TimedOut     bool    `json:"timedOut,omitempty"`
	Updated      bool    `json:"updated,omitempty"`
	Expected     string  `json:"expected,omitempty"`
	Actual       string  `json:"actual,omitempty"`
	Stderr       string  `json:"stderr,omitempty"`
}

// JSONFormatter formats fixture results as JSON
type JSONFormatter struct {
	writer  io.Writer
	output  JSONOutput
	results []JSONTest
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer:  os.Stdout,
		results: make([]JSONTest, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatHeader(script config.Script) {
	f.output.Script = script.Name
}

func (f *JSONFormatter) FormatFixture(r *runner.FixtureResult) {
	test := JSONTest{
		Name:         r.Fixture.Name,
		Input:        r.Fixture.InputPath,
		ExpectedFile: r.Fixture.ExpectedPath,
		Passed:       r.Passed,
		Duration:     float64(r.Duration.Microseconds()) / 1000,
		ExitCode:     r.ExitCode,
		TimedOut:     r.TimedOut,
		Updated:      r.Updated,
	}

	// Outputs are only worth carrying for failures
	if !r.Passed {
		test.Expected = r.Expected
		test.Actual = r.Actual
		test.Stderr = r.Stderr
	}

	f.results = append(f.results, test)
}

func (f *JSONFormatter) FormatSummary(result *runner.RunResult) {
	f.output.RunID = result.ID
	f.output.Script = result.Script.Name
}

func (f *JSONFormatter) FormatError(err error) {
	f.output.Error = err.Error()
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush(totalDuration time.Duration) error {
	var passed, failed int
	for _, t := range f.results {
		if t.Passed {
			passed++
		} else {
			failed++
		}
	}
	summary := runner.Summary{Passed: passed, Failed: failed}

	output := f.output
	output.Summary = JSONSummary{
		Total:         summary.Total(),
		Passed:        summary.Passed,
		Failed:        summary.Failed,
		PassedPercent: summary.PassedPercent(),
		FailedPercent: summary.FailedPercent(),
	}
	output.Tests = f.results
	output.Duration = float64(totalDuration.Milliseconds())
	output.Time = time.Now().Format(time.RFC3339)

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
