// Package config loads the fixspec configuration file.
//
// It provides functionality for:
//   - Loading the script-to-fixture-directory mapping from JSON or YAML
//   - Validating the document shape before decoding
//   - Resolving a script name against the loaded entries
package config
