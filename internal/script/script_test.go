package script_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/script"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/services"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/testsupport"
)

func TestParseJobFileYAML(t *testing.T) {
	data := []byte(`
title: Ocean Facts
mode: Footage
target_duration: 60
voice:
  reference: /voices/me.wav
  language: en
burn_subtitles: true
sections:
  - title: Depths
    content: The ocean is deep. Very deep.
    orderIndex: "2"
  - title: Intro
    content: Welcome to the show.
    order_index: 1
`)
	job, err := script.ParseJobFile(data)
	if err != nil {
		t.Fatalf("ParseJobFile: %v", err)
	}
	if job.Mode != "footage" || job.TargetDuration != 60 || job.Voice.Reference != "/voices/me.wav" {
		t.Fatalf("unexpected job: %+v", job)
	}
	if job.BurnSubtitles == nil || !*job.BurnSubtitles {
		t.Fatal("expected burn_subtitles=true")
	}
	if len(job.Sections) != 2 || job.Sections[0].Title != "Intro" || job.Sections[1].OrderIndex != 2 {
		t.Fatalf("unexpected sections: %+v", job.Sections)
	}
}

func TestParseJobFileJSONDefaultsIndex(t *testing.T) {
	data := []byte(`{"sections":[{"title":"A","content":"one two"},{"title":"B","content":"three"}]}`)
	job, err := script.ParseJobFile(data)
	if err != nil {
		t.Fatalf("ParseJobFile: %v", err)
	}
	if job.Title != "A" {
		t.Fatalf("expected title to default to first section, got %q", job.Title)
	}
	if job.Sections[0].OrderIndex != 0 || job.Sections[1].OrderIndex != 1 {
		t.Fatalf("expected positional indexes, got %+v", job.Sections)
	}
	if script.TotalWords(job.Sections) != 3 {
		t.Fatalf("TotalWords = %d", script.TotalWords(job.Sections))
	}
}

func TestParseJobFileRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no sections", `title: x`},
		{"empty content", `sections: [{title: a, content: "  "}]`},
		{"duplicate index", `sections: [{title: a, content: x, orderIndex: 1}, {title: b, content: y, orderIndex: 1}]`},
		{"bad index", `sections: [{title: a, content: x, orderIndex: first}]`},
		{"negative target", `{target_duration: -1, sections: [{title: a, content: x}]}`},
		{"malformed", `sections: [`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := script.ParseJobFile([]byte(tt.data))
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestLoadJobFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.yaml")
	testsupport.WriteFile(t, path, []byte("sections:\n  - title: Only\n    content: Hello there.\n"))
	job, err := script.LoadJobFile(path)
	if err != nil {
		t.Fatalf("LoadJobFile: %v", err)
	}
	if len(job.Sections) != 1 || job.Sections[0].Text() != "Hello there." {
		t.Fatalf("unexpected job: %+v", job)
	}
	if _, err := script.LoadJobFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSortedIsStableCopy(t *testing.T) {
	in := []script.Section{{Title: "b", OrderIndex: 2}, {Title: "a", OrderIndex: 1}}
	out := script.Sorted(in)
	if out[0].Title != "a" || in[0].Title != "b" {
		t.Fatalf("Sorted must not mutate input: in=%v out=%v", in, out)
	}
}
