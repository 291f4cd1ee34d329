// Package wav reads and writes the RIFF/WAVE framing used by the speech
// synthesis backends: header parsing, payload location, size-field rewrites
// after concatenation, and silence generation.
package wav
