// Package logging assembles structured slog loggers and formatting helpers used
// across vidpipe.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so stage code automatically tags
// log lines with job IDs, stage names, and section indexes. ProgressSampler
// keeps ffmpeg progress output readable.
package logging
