// Package cmd implements the fixspec CLI commands using Cobra.
//
// Available commands:
//   - run: Run a configured script against its fixtures (also the default)
//   - list: Display configured scripts and their fixture counts
//   - validate: Check the configuration and fixture directories
//   - init: Create a sample configuration with an example fixture
//   - version: Show fixspec version information
//
// Without a script argument, run prompts for the script name on stdin.
package cmd
