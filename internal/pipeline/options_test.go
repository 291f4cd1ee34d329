package pipeline

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/compose"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/script"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/services"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/testsupport"
)

func TestOptionsForDefaults(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	opts, err := OptionsFor(cfg, &script.JobFile{Title: "Deep Sea"})
	if err != nil {
		t.Fatalf("OptionsFor: %v", err)
	}
	if opts.Mode != compose.ModeOverlay {
		t.Fatalf("Mode = %s", opts.Mode)
	}
	if opts.Render.Width != cfg.Composition.Width || opts.Render.Height != cfg.Composition.Height {
		t.Fatalf("geometry = %dx%d", opts.Render.Width, opts.Render.Height)
	}
	if opts.OverlayText != "Deep Sea" {
		t.Fatalf("OverlayText = %q", opts.OverlayText)
	}
	if opts.OutputPath != filepath.Join(cfg.Paths.OutputDir, "deep-sea.mp4") {
		t.Fatalf("OutputPath = %s", opts.OutputPath)
	}
}

func TestOptionsForOverrides(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	burn := true
	job := &script.JobFile{
		Title:          "Deep Sea",
		Mode:           "FOOTAGE",
		Output:         "/tmp/out/final.mp4",
		TargetDuration: 90,
		OverlayText:    "Custom",
		Quality:        "high",
		Width:          1080,
		Height:         1920,
		FPS:            24,
		Background:     "navy",
		FontColor:      "yellow",
		FontSize:       80,
		BurnSubtitles:  &burn,
	}
	opts, err := OptionsFor(cfg, job)
	if err != nil {
		t.Fatalf("OptionsFor: %v", err)
	}
	if opts.Mode != compose.ModeFootage || opts.TargetDuration != 90 || opts.OverlayText != "Custom" {
		t.Fatalf("unexpected options %+v", opts)
	}
	r := opts.Render
	if r.Quality != compose.QualityHigh || r.Width != 1080 || r.Height != 1920 || r.FPS != 24 {
		t.Fatalf("unexpected render options %+v", r)
	}
	if r.BackgroundColor != "navy" || r.FontColor != "yellow" || r.FontSize != 80 || !r.BurnSubtitles {
		t.Fatalf("unexpected styling %+v", r)
	}
	if opts.OutputPath != "/tmp/out/final.mp4" {
		t.Fatalf("OutputPath = %s", opts.OutputPath)
	}
}

func TestOptionsForRejectsUnknownValues(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	for _, job := range []*script.JobFile{{Mode: "slideshow"}, {Quality: "ultra"}} {
		if _, err := OptionsFor(cfg, job); !errors.Is(err, services.ErrValidation) {
			t.Errorf("OptionsFor(%+v) = %v, want ErrValidation", job, err)
		}
	}
}

func TestSidecarPath(t *testing.T) {
	if got := SidecarPath("/out/video.mp4", ".srt"); got != "/out/video.srt" {
		t.Fatalf("SidecarPath = %s", got)
	}
	if got := SidecarPath("/out/video", ".wav"); got != "/out/video.wav" {
		t.Fatalf("SidecarPath = %s", got)
	}
}
