// Package footage finds, ranks, and downloads stock video clips that cover
// a script's narration.
//
// Client talks to a Pexels-shaped video search API with token-bucket rate
// limiting, retry on throttling, and an optional persistent search cache.
// Selector turns script sections into keywords, scores the returned video
// files, and accumulates unique clips until the requested coverage is met,
// falling back to generic keywords with a relaxed quality bar when the
// script's own vocabulary runs dry. Downloader fetches the chosen clips in
// parallel, isolating failures per clip.
package footage
