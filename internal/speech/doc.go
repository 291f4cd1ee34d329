// Package speech turns ordered script sections into ordered audio segments.
//
// Sections are synthesized in bounded concurrent batches. Each call yields a
// tagged Outcome so one failure never cancels its siblings. Failed sections
// are retried once with conservative settings and, if they fail again,
// replaced by placeholder silence, so the result always holds one segment
// per section plus the optional pauses between them.
package speech
