// Package env builds the environment handed to scripts under test.
//
// Variables come from the parent process and, optionally, a .env file whose
// entries take precedence.
package env
