package pipeline

import (
	"path/filepath"
	"strings"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/compose"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/config"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/script"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/services"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/textutil"
)

// Options is the per-job processing configuration: config defaults with
// the job file's overrides applied.
type Options struct {
	Mode           compose.Mode
	TargetDuration float64
	OverlayText    string
	OutputPath     string
	Render         compose.Options
}

// OptionsFor resolves processing options for a job.
func OptionsFor(cfg *config.Config, job *script.JobFile) (Options, error) {
	render := compose.OptionsFromConfig(cfg)
	modeValue := cfg.Composition.Mode
	opts := Options{}
	if job != nil {
		if job.Mode != "" {
			modeValue = job.Mode
		}
		opts.TargetDuration = job.TargetDuration
		opts.OverlayText = strings.TrimSpace(job.OverlayText)
		opts.OutputPath = strings.TrimSpace(job.Output)
		if job.Quality != "" {
			render.Quality = compose.Quality(job.Quality)
		}
		if job.Width > 0 {
			render.Width = job.Width
		}
		if job.Height > 0 {
			render.Height = job.Height
		}
		if job.FPS > 0 {
			render.FPS = job.FPS
		}
		if job.Background != "" {
			render.BackgroundColor = job.Background
		}
		if job.FontColor != "" {
			render.FontColor = job.FontColor
		}
		if job.FontSize > 0 {
			render.FontSize = job.FontSize
		}
		if job.FontFile != "" {
			render.FontFile = job.FontFile
		}
		if job.BurnSubtitles != nil {
			render.BurnSubtitles = *job.BurnSubtitles
		}
	}

	mode, err := compose.ParseMode(modeValue)
	if err != nil {
		return Options{}, services.Wrap(services.ErrValidation, "pipeline", "options", "", err)
	}
	opts.Mode = mode
	quality, err := compose.ParseQuality(string(render.Quality))
	if err != nil {
		return Options{}, services.Wrap(services.ErrValidation, "pipeline", "options", "", err)
	}
	render.Quality = quality
	opts.Render = render

	if opts.OverlayText == "" && job != nil {
		opts.OverlayText = job.Title
	}
	if opts.OutputPath == "" {
		title := ""
		if job != nil {
			title = job.Title
		}
		opts.OutputPath = filepath.Join(cfg.Paths.OutputDir, textutil.Slug(title, "render")+".mp4")
	} else if !filepath.IsAbs(opts.OutputPath) {
		opts.OutputPath = filepath.Join(cfg.Paths.OutputDir, opts.OutputPath)
	}
	return opts, nil
}

// SidecarPath swaps the extension of a render path.
func SidecarPath(outputPath, ext string) string {
	return strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ext
}
