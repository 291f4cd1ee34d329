// Package services defines shared utilities consumed by the pipeline stages
// and the external tool integrations under it.
//
// Key responsibilities:
//   - Context helpers that stamp job IDs, stage names, section indexes, and
//     correlation identifiers for logging.
//   - Error markers for every failure class the pipeline distinguishes
//     (synthesis, assembly, download, composition, timeouts) plus the Wrap
//     helper that keeps stage context readable in the error chain.
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
