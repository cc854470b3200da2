package cmd

// Exit codes for fixspec CLI. Failing fixtures, an unknown script and an
// empty fixture set all exit with ExitSuccess.
const (
	// ExitSuccess indicates the run completed
	ExitSuccess = 0

	// ExitFatal indicates a configuration, fixture or execution error
	// aborted the run
	ExitFatal = 1
)
