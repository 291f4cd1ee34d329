// Package subtitles computes caption timing for narrated scripts and
// renders it as SRT.
//
// Timing is estimated rather than aligned: each section receives a share
// of the narration proportional to its word count, each section is split
// into short chunks of at most a few sentences, and chunks divide their
// section's share evenly. A fixed pause separates sections so captions
// stay silent while the inter-section gap plays.
package subtitles
