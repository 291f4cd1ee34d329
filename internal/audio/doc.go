// Package audio assembles the narration track from ordered speech and
// silence segments by splicing WAV payloads behind a single header.
package audio
