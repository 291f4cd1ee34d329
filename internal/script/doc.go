// Package script defines the narration Section type and loads job files
// describing a render: sections, voice, mode, and per-job output overrides.
package script
