// Package cmdexec runs external tools (tts, espeak-ng, ffmpeg, ffprobe)
// behind a small Executor interface.
//
// Every invocation carries its own timeout, captures stdout and stderr, and
// can stream lines to callbacks for progress parsing. Packages that spawn
// processes accept an Executor so tests can substitute a Func stub and
// exercise retry and fallback paths without real binaries.
package cmdexec
