package runner

import "fmt"

// FixtureReadError is returned when a fixture file cannot be read. It aborts
// the whole run since no verdict can be computed without the expected output.
type FixtureReadError struct {
	Path string
	Err  error
}

func (e *FixtureReadError) Error() string {
	return fmt.Sprintf("reading fixture %s: %v", e.Path, e.Err)
}

func (e *FixtureReadError) Unwrap() error { return e.Err }

// ExecutionError is returned when the script subprocess cannot be started
type ExecutionError struct {
	Interpreter string
	Script      string
	Err         error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("running %s %s: %v", e.Interpreter, e.Script, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }
