// Package preflight provides readiness checks for the directories, binaries,
// and stock footage API a render depends on.
//
// The render command runs RunAll before starting a job so a missing ffmpeg
// or an unwritable output dir fails in seconds rather than after synthesis.
// The deps command reuses CheckSystemDeps and the individual checks for its
// table output.
package preflight
