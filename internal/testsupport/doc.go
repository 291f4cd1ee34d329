// Package testsupport holds helpers shared by package tests: isolated
// configs, stubbed binaries on PATH, a job store, and WAV fixtures.
package testsupport
