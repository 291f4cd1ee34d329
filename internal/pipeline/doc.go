// Package pipeline runs a render job end to end.
//
// A run takes a job file's ordered sections through speech synthesis, WAV
// assembly, caption timing, and either an overlay render or a stock-footage
// render, then publishes the video next to its audio track and SRT. Each
// run gets a scratch workspace under paths.work_dir that is removed on exit,
// a job-level deadline, and an advisory lock on its output path. Job
// history is recorded when a store is attached.
package pipeline
