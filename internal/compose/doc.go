// Package compose renders the final video with ffmpeg.
//
// Two modes share one encoder configuration. Overlay mode draws a centered
// title over a solid color background for the length of the narration.
// Footage mode scales and pads downloaded clips to the output geometry,
// concatenates them, and muxes the narration on top. In both modes the
// audio track decides the output length, captions can be burned in, and
// ffmpeg's progress stream is sampled into the log.
package compose
