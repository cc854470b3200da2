// Package output provides formatters for displaying fixture results.
//
// Supported output formats:
//   - Console: Human-readable colored terminal output
//   - JSON: Machine-readable JSON output
//   - JUnit: JUnit XML format for CI integration
//   - TAP: Test Anything Protocol format
//
// Console output is streamed as each fixture finishes. The other formats
// accumulate results and write them on Flush.
package output
