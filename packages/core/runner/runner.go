package runner

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/fixspec/packages/core/config"
	"github.com/abdul-hamid-achik/fixspec/packages/core/fixture"
	"github.com/abdul-hamid-achik/fixspec/packages/timing"
	"github.com/google/uuid"
)

type Runner struct {
	config *Config
}

type Config struct {
	Interpreter    string
	Timeout        time.Duration // zero disables the per-fixture timeout
	Env            []string      // nil inherits the parent environment
	NameFilter     string
	UpdateExpected bool
}

func NewRunner(cfg *Config) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Interpreter == "" {
		cfg.Interpreter = config.DefaultInterpreter
	}

	return &Runner{
		config: cfg,
	}
}

type RunResult struct {
	ID       string
	Script   config.Script
	Results  []*FixtureResult
	Summary  Summary
	Timing   timing.Stats
	Duration time.Duration
}

type FixtureResult struct {
	Fixture  fixture.Fixture
	Passed   bool
	Duration time.Duration
	Expected string
	Actual   string
	Stderr   string
	ExitCode int
	TimedOut bool
	Updated  bool
}

// RunScript discovers the fixtures of script and runs each of them in turn.
// onResult, when set, is called as soon as a fixture's verdict is known.
// Any fixture read or spawn error aborts the run.
func (r *Runner) RunScript(ctx context.Context, script config.Script, onResult func(*FixtureResult)) (*RunResult, error) {
	fixtures, err := fixture.Discover(script.Dir, script.BaseName())
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result := &RunResult{
		ID:     uuid.New().String(),
		Script: script,
	}
	hist := timing.NewHistogram()

	for _, fx := range fixtures {
		if !matchesPattern(fx.Name, r.config.NameFilter) {
			continue
		}

		fr, err := r.RunFixture(ctx, script.Name, fx)
		if err != nil {
			return nil, err
		}

		result.Results = append(result.Results, fr)
		result.Summary = result.Summary.Add(fr)
		hist.Record(fr.Duration)

		if onResult != nil {
			onResult(fr)
		}
	}

	result.Timing = hist.Stats()
	result.Duration = time.Since(start)
	return result, nil
}

// RunFixture runs scriptPath once with fx's input and compares the output
func (r *Runner) RunFixture(ctx context.Context, scriptPath string, fx fixture.Fixture) (*FixtureResult, error) {
	expected, err := os.ReadFile(fx.ExpectedPath)
	missing := errors.Is(err, fs.ErrNotExist)
	if err != nil && !(missing && r.config.UpdateExpected) {
		return nil, &FixtureReadError{Path: fx.ExpectedPath, Err: err}
	}

	input, err := os.Open(fx.InputPath)
	if err != nil {
		return nil, &FixtureReadError{Path: fx.InputPath, Err: err}
	}
	defer input.Close()

	out, err := r.execute(ctx, scriptPath, input)
	if err != nil {
		return nil, err
	}

	result := &FixtureResult{
		Fixture:  fx,
		Duration: out.duration,
		Expected: string(expected),
		Actual:   out.stdout,
		Stderr:   out.stderr,
		ExitCode: out.exitCode,
		TimedOut: out.timedOut,
	}
	result.Passed = !out.timedOut && !missing && Compare(result.Actual, result.Expected)

	if r.config.UpdateExpected && !result.Passed && !out.timedOut {
		if err := os.WriteFile(fx.ExpectedPath, []byte(result.Actual), 0644); err != nil {
			return nil, &FixtureReadError{Path: fx.ExpectedPath, Err: err}
		}
		result.Expected = result.Actual
		result.Passed = true
		result.Updated = true
	}

	return result, nil
}

// Compare reports whether actual and expected match once leading and
// trailing whitespace is removed from both
func Compare(actual, expected string) bool {
	return strings.TrimSpace(actual) == strings.TrimSpace(expected)
}

// matchesPattern supports exact names and a leading and/or trailing "*"
func matchesPattern(name, pattern string) bool {
	if pattern == "" || pattern == "*" {
		return true
	}

	prefix := strings.HasPrefix(pattern, "*")
	suffix := strings.HasSuffix(pattern, "*")
	core := strings.TrimSuffix(strings.TrimPrefix(pattern, "*"), "*")

	switch {
	case prefix && suffix:
		return strings.Contains(name, core)
	case prefix:
		return strings.HasSuffix(name, core)
	case suffix:
		return strings.HasPrefix(name, core)
	default:
		return name == pattern
	}
}
