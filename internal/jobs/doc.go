// Package jobs persists render job history and the stock-footage search cache
// in a SQLite database under the configured state directory.
//
// The schema is embedded and versioned; a version mismatch is reported with
// ErrSchemaMismatch rather than migrated in place, since the database only
// holds history and cache data that can be safely discarded.
package jobs
