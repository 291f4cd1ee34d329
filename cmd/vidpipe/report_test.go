package main

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/deps"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/preflight"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/script"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/speech"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/staging"
)

func TestDependencyRow(t *testing.T) {
	tests := []struct {
		name   string
		status deps.Status
		level  level
		detail string
	}{
		{"ready", deps.Status{Name: "FFmpeg", Available: true, Command: "ffmpeg", Version: "7.1"}, levelOK, "ffmpeg (7.1)"},
		{"missing", deps.Status{Name: "Coqui TTS", Detail: `binary "tts" not found`}, levelFail, `binary "tts" not found`},
		{"optional", deps.Status{Name: "FFprobe", Optional: true}, levelWarn, "not available (optional)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dependencyRow(tt.status)
			if got.level != tt.level || got.detail != tt.detail {
				t.Fatalf("dependencyRow = %+v, want level %d detail %q", got, tt.level, tt.detail)
			}
		})
	}
}

func TestRowFormat(t *testing.T) {
	plain := row{label: "FFmpeg", level: levelFail, detail: "not found"}.format(false)
	if plain != "  FFmpeg             FAIL not found" {
		t.Fatalf("plain row = %q", plain)
	}
	colored := row{label: "FFmpeg", level: levelOK}.format(true)
	if !strings.HasPrefix(colored, "\x1b[32m") || !strings.HasSuffix(colored, ansiReset) {
		t.Fatalf("colored row = %q", colored)
	}
}

func TestReporterCountsFailures(t *testing.T) {
	var buf bytes.Buffer
	rep := newReporter(&buf)
	rep.heading("Preflight")
	rep.rows(
		preflightRow(preflight.Result{Name: "Work directory", Passed: true, Detail: "/tmp/work"}),
		preflightRow(preflight.Result{Name: "Footage API", Detail: "401 Unauthorized"}),
		placeholderRow(speech.Outcome{Section: script.Section{Title: "Intro", OrderIndex: 2}, Err: errors.New("engine crashed")}),
		cleanupRow(staging.CleanupError{Path: "/tmp/work/job-1", Error: errors.New("permission denied")}),
	)
	if rep.failed != 2 {
		t.Fatalf("failed = %d, want 2", rep.failed)
	}
	out := buf.String()
	for _, want := range []string{"» Preflight", "FAIL 401 Unauthorized", `section 2 "Intro"`, "WARN silent placeholder: engine crashed", "FAIL permission denied"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTableAlignsColumns(t *testing.T) {
	out := renderTable([]string{"ID", "Length"}, [][]string{{"a1", "1.00s"}, {"b2"}}, []columnAlignment{alignLeft, alignRight})
	if !strings.Contains(out, "ID") || !strings.Contains(out, "1.00s") {
		t.Fatalf("unexpected table:\n%s", out)
	}
	if renderTable(nil, nil, nil) != "" {
		t.Fatal("expected empty table for no headers")
	}
}

func TestIsTerminalRejectsNonFile(t *testing.T) {
	if isTerminal(io.Discard) {
		t.Fatal("expected non-file writer to disable color")
	}
}
