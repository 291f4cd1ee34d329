// Package logs reads the vidpipe log file for the CLI.
//
// Tail returns the last N lines (optionally filtered by substring) and an
// offset that a follow loop passes back to receive only new lines.
package logs
