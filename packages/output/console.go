package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/fixspec/packages/core/config"
	"github.com/abdul-hamid-achik/fixspec/packages/core/runner"
	"github.com/abdul-hamid-achik/fixspec/packages/timing"
	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"
)

// NotFoundMessage is printed when the requested script is not configured
const NotFoundMessage = "Python file not found in the configuration."

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	title = color.New(color.FgCyan, color.Bold).SprintFunc()
	dim   = color.New(color.Faint).SprintFunc()
)

func (f *ConsoleFormatter) FormatHeader(script config.Script) {
	fmt.Fprintf(f.writer, "%s\n", title(script.Name))
}

func (f *ConsoleFormatter) FormatFixture(r *runner.FixtureResult) {
	verdict := green("PASSED")
	if !r.Passed {
		verdict = red("FAILED")
	}

	var notes []string
	if r.TimedOut {
		notes = append(notes, "timed out")
	}
	if r.Updated {
		notes = append(notes, "expected output updated")
	}
	note := ""
	if len(notes) > 0 {
		note = " " + dim("["+strings.Join(notes, ", ")+"]")
	}

	fmt.Fprintf(f.writer, "%s: %s (took %s)%s\n", r.Fixture.InputPath, verdict, timing.Format(r.Duration), note)

	if !f.verbose || r.Passed {
		return
	}

	if !r.TimedOut {
		fmt.Fprintf(f.writer, "    %s\n", dim("(-expected +actual)"))
		for _, line := range strings.Split(strings.TrimRight(OutputDiff(r.Expected, r.Actual), "\n"), "\n") {
			fmt.Fprintf(f.writer, "    %s\n", line)
		}
	}
	if r.ExitCode != 0 && !r.TimedOut {
		fmt.Fprintf(f.writer, "    Exit code: %d\n", r.ExitCode)
	}
	if stderr := strings.TrimSpace(r.Stderr); stderr != "" {
		fmt.Fprintf(f.writer, "    Stderr:\n")
		for _, line := range strings.Split(stderr, "\n") {
			fmt.Fprintf(f.writer, "      %s\n", line)
		}
	}
}

func (f *ConsoleFormatter) FormatSummary(result *runner.RunResult) {
	s := result.Summary

	fmt.Fprintf(f.writer, "\n[SUMMARY] Successfully ran %d tests on %s:\n", s.Total(), title(result.Script.Name))
	fmt.Fprintf(f.writer, "%s PASSED (%.2f%%)\n", green(s.Passed), s.PassedPercent())
	fmt.Fprintf(f.writer, "%s FAILED (%.2f%%)\n", red(s.Failed), s.FailedPercent())

	if f.verbose && result.Timing.Count > 0 {
		t := result.Timing
		fmt.Fprintf(f.writer, "Timing: min %s, p50 %s, p95 %s, max %s, total %s\n",
			timing.Format(t.Min), timing.Format(t.P50), timing.Format(t.P95),
			timing.Format(t.Max), timing.Format(result.Duration))
	}

	fmt.Fprintf(f.writer, "\n")
}

func (f *ConsoleFormatter) FormatError(err error) {
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

// OutputDiff returns a line diff of the trimmed expected and actual output
func OutputDiff(expected, actual string) string {
	return cmp.Diff(splitLines(expected), splitLines(actual))
}

func splitLines(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
