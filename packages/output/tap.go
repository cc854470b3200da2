package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/fixspec/packages/core/config"
	"github.com/abdul-hamid-achik/fixspec/packages/core/runner"
)

// TAPFormatter formats fixture results in TAP (Test Anything Protocol) format
type TAPFormatter struct {
	writer  io.Writer
	script  string
	results []*runner.FixtureResult
	err     error
}

type TAPOption func(*TAPFormatter)

func NewTAPFormatter(opts ...TAPOption) *TAPFormatter {
	f := &TAPFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func TAPWithWriter(w io.Writer) TAPOption {
	return func(f *TAPFormatter) {
		f.writer = w
	}
}

func (f *TAPFormatter) FormatHeader(script config.Script) {
	f.script = script.Name
}

func (f *TAPFormatter) FormatFixture(r *runner.FixtureResult) {
	f.results = append(f.results, r)
}

func (f *TAPFormatter) FormatSummary(result *runner.RunResult) {}

func (f *TAPFormatter) FormatError(err error) {
	f.err = err
}

// Flush writes the accumulated TAP output
func (f *TAPFormatter) Flush(totalDuration time.Duration) error {
	fmt.Fprintf(f.writer, "TAP version 13\n")
	fmt.Fprintf(f.writer, "1..%d\n", len(f.results))
	if f.script != "" {
		fmt.Fprintf(f.writer, "# %s\n", f.script)
	}

	for i, r := range f.results {
		n := i + 1
		if r.Passed {
			fmt.Fprintf(f.writer, "ok %d - %s\n", n, r.Fixture.Name)
			continue
		}

		fmt.Fprintf(f.writer, "not ok %d - %s\n", n, r.Fixture.Name)
		fmt.Fprintf(f.writer, "  ---\n")
		fmt.Fprintf(f.writer, "  input: %s\n", escapeYAML(r.Fixture.InputPath))
		if r.TimedOut {
			fmt.Fprintf(f.writer, "  message: timed out\n")
		} else {
			fmt.Fprintf(f.writer, "  message: output mismatch\n")
			fmt.Fprintf(f.writer, "  expected: %s\n", escapeYAML(strings.TrimSpace(r.Expected)))
			fmt.Fprintf(f.writer, "  actual: %s\n", escapeYAML(strings.TrimSpace(r.Actual)))
		}
		fmt.Fprintf(f.writer, "  ...\n")
	}

	if f.err != nil {
		fmt.Fprintf(f.writer, "Bail out! %s\n", f.err)
	}

	fmt.Fprintf(f.writer, "# duration %s\n", totalDuration.Round(time.Millisecond))
	return nil
}

func escapeYAML(s string) string {
	if s == "" {
		return `""`
	}
	if strings.ContainsAny(s, ":\n\"'[]{}#&*!|>%@`") {
		s = strings.ReplaceAll(s, `\`, `\\`)
		s = strings.ReplaceAll(s, "\"", "\\\"")
		s = strings.ReplaceAll(s, "\n", `\n`)
		return "\"" + s + "\""
	}
	return s
}
