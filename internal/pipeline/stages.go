package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/audio"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/compose"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/fileutil"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/footage"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/logging"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/script"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/services"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/services/tts"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/speech"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/staging"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/subtitles"
)

// Narration is a job's assembled audio track.
type Narration struct {
	// Audio holds the combined WAV when the track was synthesized.
	Audio        []byte
	Seconds      float64
	Placeholders int
	Failures     []speech.Outcome
	// external is set when the job supplied prerecorded audio.
	external string
}

// Prerecorded reports whether the track came from the job's audio_url.
func (n Narration) Prerecorded() bool {
	return n.external != ""
}

// Path returns the resolved prerecorded audio file, or "" for synthesized
// narration.
func (n Narration) Path() string {
	return n.external
}

func (n Narration) materialize(ws *staging.Workspace) (string, error) {
	if n.external != "" {
		return n.external, nil
	}
	path := ws.Path("narration.wav")
	if err := fileutil.WriteFileAtomic(path, n.Audio, 0o644); err != nil {
		return "", services.Wrap(services.ErrAssembly, "pipeline", "write narration", path, err)
	}
	return path, nil
}

// Speak produces the narration for job. Remote voice samples and audio are
// fetched into scratchDir.
func (r *Runner) Speak(ctx context.Context, job *script.JobFile, scratchDir string) (Narration, error) {
	if strings.TrimSpace(job.AudioURL) != "" {
		return r.loadNarration(ctx, job.AudioURL, scratchDir)
	}

	voice := tts.VoiceOptions{
		Reference: job.Voice.Reference,
		Language:  job.Voice.Language,
		Speaker:   job.Voice.Speaker,
	}
	if voice.Reference != "" {
		path, err := r.resolver.Resolve(ctx, voice.Reference, scratchDir)
		if err != nil {
			return Narration{}, stageFailure(ctx, StageSpeech, err)
		}
		voice.Reference = path
	}

	out, err := r.speech.Run(ctx, job.Sections, speech.Request{Voice: voice, Caps: r.speech.Caps()})
	if err != nil {
		return Narration{}, stageFailure(ctx, StageSpeech, err)
	}
	segments, resampled, err := audio.Conform(ctx, out.Segments, audio.Resampler{
		Exec:    r.exec,
		Binary:  r.cfg.Composition.FFmpegBinary,
		Dir:     scratchDir,
		Timeout: r.cfg.CompositionTimeout(),
	})
	if err != nil {
		return Narration{}, stageFailure(ctx, StageAssembly, err)
	}
	if resampled > 0 {
		logging.WithContext(ctx, r.logger).Info("resampled sections to the narration format",
			logging.Int("segments", resampled),
		)
	}
	combined, err := audio.Combine(segments)
	if err != nil {
		return Narration{}, stageFailure(ctx, StageAssembly, err)
	}
	seconds, err := audio.Duration(combined)
	if err != nil {
		return Narration{}, stageFailure(ctx, StageAssembly, err)
	}
	return Narration{
		Audio:        combined,
		Seconds:      seconds,
		Placeholders: out.Placeholders,
		Failures:     out.Failures,
	}, nil
}

func (r *Runner) loadNarration(ctx context.Context, ref, scratchDir string) (Narration, error) {
	path, err := r.resolver.Resolve(ctx, ref, scratchDir)
	if err != nil {
		return Narration{}, stageFailure(ctx, StageSpeech, err)
	}
	if data, err := os.ReadFile(path); err == nil {
		if seconds, err := audio.Duration(data); err == nil && seconds > 0 {
			return Narration{Seconds: seconds, external: path}, nil
		}
	}
	seconds, err := r.prober.Duration(ctx, path)
	if err != nil {
		return Narration{}, stageFailure(ctx, StageAssembly, err)
	}
	if seconds <= 0 {
		return Narration{}, stageFailure(ctx, StageAssembly,
			services.Wrap(services.ErrAssembly, "pipeline", "measure narration", fmt.Sprintf("%s has no duration", path), nil))
	}
	return Narration{Seconds: seconds, external: path}, nil
}

// Captions times the job's sections against the narration length.
func (r *Runner) Captions(sections []script.Section, seconds float64) []subtitles.Segment {
	return subtitles.ComputeTiming(sections, seconds, subtitles.OptionsFromConfig(r.cfg))
}

func (r *Runner) writeCaptions(ctx context.Context, ws *staging.Workspace, captions []subtitles.Segment, seconds float64) (string, error) {
	if issues := subtitles.Validate(captions, seconds); len(issues) > 0 {
		logging.WarnWithContext(logging.WithContext(ctx, r.logger), "caption timing issues", "caption_validation",
			logging.Strings("issues", issues),
			logging.String(logging.FieldErrorHint, "check section text for empty or unreadable content"),
			logging.String(logging.FieldImpact, "captions may drift from the narration"),
		)
	}
	if len(captions) == 0 {
		return "", nil
	}
	path := ws.Path("captions.srt")
	if err := subtitles.WriteSRT(path, captions); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "pipeline", "write captions", path, err)
	}
	return path, nil
}

// SelectFootage picks stock clips covering target seconds.
func (r *Runner) SelectFootage(ctx context.Context, sections []script.Section, target float64) ([]footage.Clip, error) {
	if r.searcher == nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "select footage", "footage.api_key is not set", nil)
	}
	selector := footage.NewSelector(r.searcher, footage.SelectorOptionsFromConfig(r.cfg), r.logger)
	return selector.SelectClips(ctx, sections, target)
}

func (r *Runner) gatherFootage(ctx context.Context, sections []script.Section, target float64, ws *staging.Workspace) ([]compose.ClipInput, error) {
	clips, err := r.SelectFootage(ctx, sections, target)
	if err != nil {
		return nil, stageFailure(ctx, StageFootage, err)
	}
	if len(clips) == 0 {
		return nil, stageFailure(ctx, StageFootage,
			services.Wrap(services.ErrDownload, "pipeline", "select footage", "search returned no usable clips", nil))
	}

	dir, err := ws.Dir("clips")
	if err != nil {
		return nil, stageFailure(ctx, StageDownload, err)
	}
	downloads, failures := r.downloader.DownloadAll(ctx, clips, dir)
	if err := ctx.Err(); err != nil {
		return nil, stageFailure(ctx, StageDownload, err)
	}
	if len(failures) > 0 {
		logging.WarnWithContext(logging.WithContext(ctx, r.logger), "some clips failed to download", "clip_download_failed",
			logging.Int("failed", len(failures)),
			logging.Int("downloaded", len(downloads)),
			logging.Error(errors.Join(failures...)),
			logging.String(logging.FieldErrorHint, "check network access to the stock footage CDN"),
			logging.String(logging.FieldImpact, "fewer clips available; the last frame may be held"),
		)
	}
	if len(downloads) == 0 {
		return nil, stageFailure(ctx, StageDownload,
			services.Wrap(services.ErrDownload, "pipeline", "download footage",
				fmt.Sprintf("all %d clips failed", len(clips)), errors.Join(failures...)))
	}

	inputs := make([]compose.ClipInput, 0, len(downloads))
	for _, d := range downloads {
		inputs = append(inputs, compose.ClipInput{Path: d.Path, Duration: d.Clip.Duration})
	}
	return inputs, nil
}

func (r *Runner) publish(ctx context.Context, result *Result, outputPath, renderPath, audioPath, prerecorded, srtPath string) error {
	if err := fileutil.MoveFile(renderPath, outputPath); err != nil {
		return services.Wrap(services.ErrExternalTool, "pipeline", "publish video", outputPath, err)
	}
	result.OutputPath = outputPath

	ext := strings.ToLower(filepath.Ext(audioPath))
	switch ext {
	case "":
		ext = ".wav"
	case strings.ToLower(filepath.Ext(outputPath)):
		ext = ".narration" + ext
	}
	audioTarget := SidecarPath(outputPath, ext)
	var err error
	if prerecorded != "" {
		err = fileutil.CopyFileVerified(audioPath, audioTarget)
	} else {
		err = fileutil.MoveFile(audioPath, audioTarget)
	}
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "pipeline", "publish audio", audioTarget, err)
	}
	result.AudioPath = audioTarget

	if srtPath != "" {
		target := SidecarPath(outputPath, ".srt")
		if err := fileutil.MoveFile(srtPath, target); err != nil {
			return services.Wrap(services.ErrExternalTool, "pipeline", "publish captions", target, err)
		}
		result.SubtitlePath = target
	}
	logging.WithContext(ctx, r.logger).Debug("render published",
		logging.String("video", result.OutputPath),
		logging.String("audio", result.AudioPath),
		logging.String("captions", result.SubtitlePath),
	)
	return nil
}
