// Package runner executes a script under test against its fixtures.
//
// It provides functionality for:
//   - Discovering the fixtures that belong to a configured script
//   - Running the script once per fixture with the fixture input on stdin
//   - Comparing trimmed stdout against the expected output
//   - Folding per-fixture results into a pass/fail summary
//   - Re-running on fixture or script changes in watch mode
//
// Execution is strictly sequential: one fixture's subprocess runs to
// completion before the next one starts.
package runner
