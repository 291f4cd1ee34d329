package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/cmdexec"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/compose"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/config"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/footage"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/jobs"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/logging"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/media/ffprobe"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/notifications"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/script"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/services"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/services/tts"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/speech"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/staging"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/storage"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/subtitles"
)

// Result summarizes a finished render.
type Result struct {
	JobID        uuid.UUID
	Mode         compose.Mode
	OutputPath   string
	AudioPath    string
	SubtitlePath string
	AudioSeconds float64
	VideoSeconds float64
	Sections     int
	Placeholders int
	Clips        int
	Captions     []subtitles.Segment
	Encoder      string
	Elapsed      time.Duration
}

// Runner executes render jobs. A Runner is safe to reuse across jobs; the
// synthesis capability snapshot and encoder probe carry over between runs.
type Runner struct {
	cfg        *config.Config
	exec       cmdexec.Executor
	httpClient *http.Client
	synth      tts.Synthesizer
	searcher   footage.Searcher
	store      *jobs.Store
	notifier   notifications.Service
	logger     *slog.Logger

	speech     *speech.Orchestrator
	downloader *footage.Downloader
	compositor *compose.Compositor
	prober     *ffprobe.Prober
	resolver   *storage.Resolver
}

// Option configures a Runner.
type Option func(*Runner)

// WithExecutor routes every external process through exec.
func WithExecutor(exec cmdexec.Executor) Option {
	return func(r *Runner) {
		if exec != nil {
			r.exec = exec
		}
	}
}

// WithHTTPClient sets the client for stock API calls, clip downloads, and
// remote asset fetches.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Runner) {
		r.httpClient = client
	}
}

// WithSynthesizer replaces the configured synthesis backend.
func WithSynthesizer(synth tts.Synthesizer) Option {
	return func(r *Runner) {
		r.synth = synth
	}
}

// WithSearcher replaces the stock footage client.
func WithSearcher(searcher footage.Searcher) Option {
	return func(r *Runner) {
		r.searcher = searcher
	}
}

// WithStore records job history and caches footage searches in store.
func WithStore(store *jobs.Store) Option {
	return func(r *Runner) {
		r.store = store
	}
}

// WithNotifier replaces the ntfy service built from configuration.
func WithNotifier(notifier notifications.Service) Option {
	return func(r *Runner) {
		r.notifier = notifier
	}
}

// WithLogger sets the runner logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// New wires a runner from configuration.
func New(cfg *config.Config, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "new runner", "config required", nil)
	}
	r := &Runner{cfg: cfg, exec: cmdexec.Default()}
	for _, opt := range opts {
		opt(r)
	}
	base := r.logger
	r.logger = logging.NewComponentLogger(base, "pipeline")

	if r.synth == nil {
		client, err := tts.New(cfg.Synthesis,
			tts.WithExecutor(r.exec),
			tts.WithLogger(base),
			tts.WithTempDir(cfg.Paths.WorkDir),
		)
		if err != nil {
			return nil, err
		}
		r.synth = client
	}
	if r.searcher == nil && cfg.Footage.APIKey != "" {
		var cache footage.Cache
		if r.store != nil {
			cache = r.store
		}
		clientCfg := footage.ConfigFromSettings(cfg, cache, base)
		if r.httpClient != nil {
			clientCfg.HTTPClient = r.httpClient
		}
		client, err := footage.New(clientCfg)
		if err != nil {
			return nil, err
		}
		r.searcher = client
	}

	if r.notifier == nil {
		r.notifier = notifications.NewServiceWithClient(cfg, r.httpClient)
	}

	r.speech = speech.New(r.synth, speech.OptionsFromConfig(cfg), base)
	r.prober = ffprobe.New(cfg.Composition.FFprobeBinary, ffprobe.WithExecutor(r.exec))
	r.compositor = compose.New(cfg.Composition, compose.WithExecutor(r.exec), compose.WithLogger(base))

	downloadOpts := []footage.DownloaderOption{
		footage.WithProber(r.prober),
		footage.WithDownloadTimeout(time.Duration(cfg.Footage.DownloadTimeout) * time.Second),
		footage.WithDownloadLogger(base),
	}
	resolverOpts := []storage.Option{storage.WithLogger(base)}
	if r.httpClient != nil {
		downloadOpts = append(downloadOpts, footage.WithHTTPClient(r.httpClient))
		resolverOpts = append(resolverOpts, storage.WithHTTPClient(r.httpClient))
	}
	r.downloader = footage.NewDownloader(downloadOpts...)
	r.resolver = storage.New(cfg, resolverOpts...)
	return r, nil
}

// Render runs job end to end and publishes the video, its audio track, and
// its captions. The returned error is a *StageError for failures inside a
// stage.
func (r *Runner) Render(ctx context.Context, job *script.JobFile) (*Result, error) {
	start := time.Now()
	if job == nil || len(job.Sections) == 0 {
		return nil, &StageError{Stage: StageInput, Err: services.Wrap(services.ErrValidation, "pipeline", "render", "job has no sections", nil)}
	}
	opts, err := OptionsFor(r.cfg, job)
	if err != nil {
		return nil, &StageError{Stage: StageInput, Err: err}
	}

	record := &jobs.Job{
		ID:         uuid.New(),
		Status:     jobs.StatusRunning,
		Mode:       string(opts.Mode),
		Title:      job.Title,
		OutputPath: opts.OutputPath,
		Sections:   len(job.Sections),
	}
	r.recordStart(ctx, record)

	ctx = services.WithJobID(ctx, record.ID.String())
	ctx = services.WithRequestID(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, r.logger)
	logger.Info("render started",
		logging.String(logging.FieldEventType, "render_start"),
		logging.String("mode", string(opts.Mode)),
		logging.String("output", opts.OutputPath),
		logging.Int("sections", len(job.Sections)),
		logging.Duration("timeout", r.cfg.PipelineTimeout()),
	)

	var cancel context.CancelFunc
	if timeout := r.cfg.PipelineTimeout(); timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	result, err := r.render(ctx, record.ID, job, opts)
	if result == nil {
		result = &Result{JobID: record.ID, Mode: opts.Mode, Sections: len(job.Sections)}
	}
	result.Elapsed = time.Since(start)
	r.recordFinish(context.WithoutCancel(ctx), record, result, err)
	r.notify(context.WithoutCancel(ctx), job.Title, result, err)

	if err != nil {
		logging.ErrorWithContext(logger, "render failed", "render_failed",
			logging.String(logging.FieldStage, FailedStage(err)),
			logging.String(logging.FieldErrorKind, services.Kind(err)),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, hintFor(err)),
			logging.String(logging.FieldImpact, "no video was published"),
		)
		return result, err
	}
	logger.Info("render finished",
		logging.String(logging.FieldEventType, "render_complete"),
		logging.String("output", result.OutputPath),
		logging.Seconds("audio_seconds", result.AudioSeconds),
		logging.Seconds("video_seconds", result.VideoSeconds),
		logging.Int("placeholders", result.Placeholders),
		logging.Int("clips", result.Clips),
		logging.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

func (r *Runner) render(ctx context.Context, jobID uuid.UUID, job *script.JobFile, opts Options) (*Result, error) {
	lock, err := lockOutput(opts.OutputPath)
	if err != nil {
		return nil, &StageError{Stage: StageInput, Err: err}
	}
	defer lock.release()

	ws, err := staging.Create(r.cfg.Paths.WorkDir, jobID.String())
	if err != nil {
		return nil, &StageError{Stage: StageInput, Err: services.Wrap(services.ErrConfiguration, "pipeline", "workspace", "", err)}
	}
	defer func() {
		if err := ws.Remove(); err != nil {
			logging.WarnWithContext(logging.WithContext(ctx, r.logger), "failed to remove job workspace", "workspace_cleanup_failed",
				logging.String("path", ws.Root),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "run vidpipe jobs clean"),
				logging.String(logging.FieldImpact, "disk space not reclaimed"),
			)
		}
	}()

	result := &Result{JobID: jobID, Mode: opts.Mode, Sections: len(job.Sections)}

	narration, err := r.Speak(ctx, job, ws.Root)
	if err != nil {
		return result, err
	}
	result.AudioSeconds = narration.Seconds
	result.Placeholders = narration.Placeholders
	audioPath, err := narration.materialize(ws)
	if err != nil {
		return result, stageFailure(ctx, StageAssembly, err)
	}

	result.Captions = r.Captions(job.Sections, narration.Seconds)
	srtPath, err := r.writeCaptions(ctx, ws, result.Captions, narration.Seconds)
	if err != nil {
		return result, stageFailure(ctx, StageSubtitles, err)
	}

	renderPath := ws.Path("render.mp4")
	var rendered compose.Result
	switch opts.Mode {
	case compose.ModeFootage:
		inputs, err := r.gatherFootage(ctx, job.Sections, max(narration.Seconds, opts.TargetDuration), ws)
		if err != nil {
			return result, err
		}
		rendered, err = r.compositor.RenderFootage(ctx, compose.FootageRequest{
			AudioPath:    audioPath,
			AudioSeconds: narration.Seconds,
			OutputPath:   renderPath,
			Clips:        inputs,
			Captions:     result.Captions,
			Options:      opts.Render,
		})
		if err != nil {
			return result, stageFailure(ctx, StageComposition, err)
		}
	default:
		rendered, err = r.compositor.RenderOverlay(ctx, compose.OverlayRequest{
			AudioPath:    audioPath,
			AudioSeconds: narration.Seconds,
			OutputPath:   renderPath,
			Text:         opts.OverlayText,
			Captions:     result.Captions,
			Options:      opts.Render,
		})
		if err != nil {
			return result, stageFailure(ctx, StageComposition, err)
		}
	}
	result.Encoder = rendered.Encoder
	result.Clips = rendered.Clips

	result.VideoSeconds = narration.Seconds
	if seconds, err := r.prober.Duration(ctx, renderPath); err == nil && seconds > 0 {
		result.VideoSeconds = seconds
	}

	if err := r.publish(ctx, result, opts.OutputPath, renderPath, audioPath, narration.external, srtPath); err != nil {
		return result, stageFailure(ctx, StagePublish, err)
	}
	return result, nil
}

func (r *Runner) recordStart(ctx context.Context, record *jobs.Job) {
	if r.store == nil {
		return
	}
	if err := r.store.Create(ctx, record); err != nil {
		logging.WarnWithContext(r.logger, "failed to record job start", "job_history_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check state_dir permissions"),
			logging.String(logging.FieldImpact, "job missing from history"),
		)
	}
}

func (r *Runner) recordFinish(ctx context.Context, record *jobs.Job, result *Result, runErr error) {
	if r.store == nil {
		return
	}
	record.AudioSeconds = result.AudioSeconds
	record.VideoSeconds = result.VideoSeconds
	record.Placeholders = result.Placeholders
	record.Clips = result.Clips
	record.SubtitlePath = result.SubtitlePath
	if runErr != nil {
		record.Status = services.FailureStatus(runErr)
		record.ErrorKind = services.Kind(runErr)
		record.ErrorMessage = runErr.Error()
	} else {
		record.Status = jobs.StatusCompleted
		record.OutputPath = result.OutputPath
	}
	if err := r.store.Update(ctx, record); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, r.logger), "failed to record job result", "job_history_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check state_dir permissions"),
			logging.String(logging.FieldImpact, "job history shows a stale status"),
		)
	}
}

func (r *Runner) notify(ctx context.Context, title string, result *Result, runErr error) {
	var err error
	if runErr != nil {
		err = r.notifier.NotifyRenderFailed(ctx, title, FailedStage(runErr), runErr)
	} else {
		err = r.notifier.NotifyRenderCompleted(ctx, notifications.Render{
			Title:        title,
			Mode:         string(result.Mode),
			OutputPath:   result.OutputPath,
			AudioSeconds: result.AudioSeconds,
			Placeholders: result.Placeholders,
			Elapsed:      result.Elapsed,
		})
	}
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, r.logger), "render notification failed", "notification_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic"),
			logging.String(logging.FieldImpact, "render outcome was not announced"),
		)
	}
}

func hintFor(err error) string {
	switch {
	case errors.Is(err, services.ErrPipelineTimeout):
		return "raise pipeline.timeout_seconds or shorten the script"
	case errors.Is(err, services.ErrSynthesis), errors.Is(err, services.ErrSynthesisTimeout):
		return "run vidpipe deps and check the synthesis backend"
	case errors.Is(err, services.ErrDownload):
		return "check network access to the stock footage CDN"
	case errors.Is(err, services.ErrComposition):
		return "inspect the ffmpeg stderr tail in the error"
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrConfiguration):
		return "fix the job file or config and retry"
	default:
		return fmt.Sprintf("see %s logs", FailedStage(err))
	}
}
