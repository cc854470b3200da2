package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/fixspec/packages/core/config"
	"github.com/abdul-hamid-achik/fixspec/packages/core/runner"
)

// JUnit XML structures

// JUnitTestSuites is the root element
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr,omitempty"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
	Timestamp  string           `xml:"timestamp,attr,omitempty"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite represents the fixtures of one script
type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	ID        string          `xml:"id,attr,omitempty"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Errors    int             `xml:"errors,attr"`
	Time      float64         `xml:"time,attr"`
	Timestamp string          `xml:"timestamp,attr,omitempty"`
	TestCases []JUnitTestCase `xml:"testcase"`
	SystemErr string          `xml:"system-err,omitempty"`
}

// JUnitTestCase represents a single fixture
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	File      string        `xml:"file,attr,omitempty"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	SystemErr string        `xml:"system-err,omitempty"`
}

// JUnitFailure represents a fixture failure
type JUnitFailure struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// JUnitFormatter formats fixture results as JUnit XML
type JUnitFormatter struct {
	writer io.Writer
	suite  JUnitTestSuite
}

type JUnitOption func(*JUnitFormatter)

func NewJUnitFormatter(opts ...JUnitOption) *JUnitFormatter {
	f := &JUnitFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JUnitWithWriter(w io.Writer) JUnitOption {
	return func(f *JUnitFormatter) {
		f.writer = w
	}
}

func (f *JUnitFormatter) FormatHeader(script config.Script) {
	f.suite.Name = script.Name
	f.suite.Timestamp = time.Now().Format(time.RFC3339)
}

func (f *JUnitFormatter) FormatFixture(r *runner.FixtureResult) {
	tc := JUnitTestCase{
		Name:      r.Fixture.Name,
		ClassName: f.suite.Name,
		File:      r.Fixture.InputPath,
		Time:      r.Duration.Seconds(),
		SystemErr: r.Stderr,
	}

	if !r.Passed {
		f.suite.Failures++
		if r.TimedOut {
			tc.Failure = &JUnitFailure{
				Message: fmt.Sprintf("timed out after %s", r.Duration.Round(time.Millisecond)),
				Type:    "Timeout",
			}
		} else {
			tc.Failure = &JUnitFailure{
				Message: "output mismatch",
				Type:    "OutputMismatch",
				Content: OutputDiff(r.Expected, r.Actual),
			}
		}
	}

	f.suite.Tests++
	f.suite.TestCases = append(f.suite.TestCases, tc)
}

func (f *JUnitFormatter) FormatSummary(result *runner.RunResult) {
	f.suite.ID = result.ID
	f.suite.Time = result.Duration.Seconds()
}

func (f *JUnitFormatter) FormatError(err error) {
	f.suite.Errors++
	f.suite.SystemErr = err.Error()
}

// Flush writes the accumulated JUnit XML output
func (f *JUnitFormatter) Flush(totalDuration time.Duration) error {
	suites := JUnitTestSuites{
		Name:       "fixspec",
		Tests:      f.suite.Tests,
		Failures:   f.suite.Failures,
		Errors:     f.suite.Errors,
		Time:       totalDuration.Seconds(),
		Timestamp:  time.Now().Format(time.RFC3339),
		TestSuites: []JUnitTestSuite{f.suite},
	}

	fmt.Fprintf(f.writer, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	encoder := xml.NewEncoder(f.writer)
	encoder.Indent("", "  ")
	return encoder.Encode(suites)
}
