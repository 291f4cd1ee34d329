// Package ffprobe inspects media files with ffprobe's JSON output.
//
// The footage downloader uses it to confirm clip durations and the
// compositor uses it to read frame rates and audio lengths. Commands run
// through cmdexec so tests can feed canned JSON.
package ffprobe
