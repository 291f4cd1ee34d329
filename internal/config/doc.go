// Package config loads, normalizes, and validates vidpipe configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// PEXELS_API_KEY. The Config type centralizes every knob the pipeline and CLI
// need, from synthesis backends to ffmpeg output geometry.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical enum values, and clear validation errors.
package config
