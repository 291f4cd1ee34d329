package compose

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/cmdexec"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/config"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/logging"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/services"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/subtitles"
)

// Mode selects how the picture is produced.
type Mode string

const (
	ModeOverlay Mode = "overlay"
	ModeFootage Mode = "footage"
)

// ParseMode normalizes a mode name, defaulting to overlay when empty.
func ParseMode(value string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(value))); m {
	case "":
		return ModeOverlay, nil
	case ModeOverlay, ModeFootage:
		return m, nil
	default:
		return "", fmt.Errorf("unsupported mode %q (use overlay or footage)", value)
	}
}

const (
	defaultTimeout = 20 * time.Minute
	audioBitrate   = "192k"
	stderrTail     = 12
)

// Options are the per-job output settings shared by both modes.
type Options struct {
	Width           int
	Height          int
	FPS             int
	Quality         Quality
	BackgroundColor string
	FontColor       string
	FontSize        int
	FontFile        string
	BurnSubtitles   bool
}

// OptionsFromConfig maps the composition config section onto render options.
func OptionsFromConfig(cfg *config.Config) Options {
	c := cfg.Composition
	return Options{
		Width:           c.Width,
		Height:          c.Height,
		FPS:             c.FPS,
		Quality:         Quality(c.Quality),
		BackgroundColor: c.BackgroundColor,
		FontColor:       c.FontColor,
		FontSize:        c.FontSize,
		FontFile:        c.FontFile,
		BurnSubtitles:   c.BurnSubtitles,
	}
}

func (o Options) validate() error {
	if o.Width <= 0 || o.Height <= 0 || o.FPS <= 0 {
		return fmt.Errorf("invalid geometry %dx%d@%d", o.Width, o.Height, o.FPS)
	}
	if o.Width%2 != 0 || o.Height%2 != 0 {
		return fmt.Errorf("width and height must be even, got %dx%d", o.Width, o.Height)
	}
	return nil
}

func (o Options) style() Style {
	color := o.FontColor
	if color == "" {
		color = "white"
	}
	size := o.FontSize
	if size <= 0 {
		size = 64
	}
	return Style{FontColor: color, FontSize: size, FontFile: o.FontFile}
}

// OverlayRequest describes an overlay-mode render.
type OverlayRequest struct {
	AudioPath    string
	AudioSeconds float64
	OutputPath   string
	Text         string
	Captions     []subtitles.Segment
	Options      Options
}

// FootageRequest describes a footage-mode render.
type FootageRequest struct {
	AudioPath    string
	AudioSeconds float64
	OutputPath   string
	Clips        []ClipInput
	Captions     []subtitles.Segment
	Options      Options
}

// Result summarizes a finished render.
type Result struct {
	Mode       Mode
	OutputPath string
	Encoder    string
	Clips      int
	Elapsed    time.Duration
	Command    string
}

// Compositor drives ffmpeg.
type Compositor struct {
	ffmpeg       string
	hardwarePref string
	timeout      time.Duration
	exec         cmdexec.Executor
	logger       *slog.Logger

	probeOnce sync.Once
	nvenc     bool
}

// Option configures a Compositor.
type Option func(*Compositor)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec cmdexec.Executor) Option {
	return func(c *Compositor) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compositor) {
		c.logger = logging.NewComponentLogger(logger, "compose")
	}
}

// New constructs a Compositor from the composition config section.
func New(cfg config.Composition, opts ...Option) *Compositor {
	binary := strings.TrimSpace(cfg.FFmpegBinary)
	if binary == "" {
		binary = "ffmpeg"
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Compositor{
		ffmpeg:       binary,
		hardwarePref: strings.ToLower(strings.TrimSpace(cfg.HardwareEncoder)),
		timeout:      timeout,
		exec:         cmdexec.Default(),
		logger:       logging.NewComponentLogger(nil, "compose"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RenderOverlay renders a solid background with centered title text over
// the audio. The output length equals the audio length.
func (c *Compositor) RenderOverlay(ctx context.Context, req OverlayRequest) (Result, error) {
	args, encoder, err := c.OverlayArgs(ctx, req)
	if err != nil {
		return Result{}, err
	}
	return c.render(ctx, ModeOverlay, req.OutputPath, req.AudioSeconds, args, encoder, 0)
}

// OverlayArgs builds the ffmpeg arguments for RenderOverlay.
func (c *Compositor) OverlayArgs(ctx context.Context, req OverlayRequest) ([]string, EncoderSettings, error) {
	if err := checkCommon(ModeOverlay, req.AudioPath, req.OutputPath, req.AudioSeconds, req.Options); err != nil {
		return nil, EncoderSettings{}, err
	}
	opts := req.Options
	encoder := SettingsFor(opts.Quality, c.HardwareAvailable(ctx))
	background := opts.BackgroundColor
	if background == "" {
		background = "black"
	}

	var filters []string
	if text := strings.TrimSpace(req.Text); text != "" {
		filters = append(filters, titleFilter(text, opts.style()))
	}
	if opts.BurnSubtitles {
		filters = append(filters, captionFilters(req.Captions, opts.style())...)
	}

	args := []string{
		"-hide_banner", "-y",
		"-f", "lavfi", "-i", fmt.Sprintf("color=c=%s:s=%dx%d:r=%d", background, opts.Width, opts.Height, opts.FPS),
		"-i", req.AudioPath,
		"-filter_complex", chain("0:v", filters),
		"-map", "[v]", "-map", "1:a",
	}
	args = append(args, outputArgs(encoder, opts.FPS, req.AudioSeconds, req.OutputPath)...)
	return args, encoder, nil
}

// RenderFootage concatenates clips under the audio. Clips are planned
// against the audio length; at least one usable clip is required.
func (c *Compositor) RenderFootage(ctx context.Context, req FootageRequest) (Result, error) {
	args, encoder, plan, err := c.FootageArgs(ctx, req)
	if err != nil {
		return Result{}, err
	}
	return c.render(ctx, ModeFootage, req.OutputPath, req.AudioSeconds, args, encoder, len(plan))
}

// FootageArgs builds the ffmpeg arguments for RenderFootage and returns
// the planned clips.
func (c *Compositor) FootageArgs(ctx context.Context, req FootageRequest) ([]string, EncoderSettings, []ClipInput, error) {
	if err := checkCommon(ModeFootage, req.AudioPath, req.OutputPath, req.AudioSeconds, req.Options); err != nil {
		return nil, EncoderSettings{}, nil, err
	}
	plan := PlanConcat(req.Clips, req.AudioSeconds)
	if len(plan) == 0 {
		return nil, EncoderSettings{}, nil, services.Wrap(services.ErrComposition, "compose", string(ModeFootage), "no usable clips", nil)
	}
	opts := req.Options
	encoder := SettingsFor(opts.Quality, c.HardwareAvailable(ctx))

	args := []string{"-hide_banner", "-y"}
	for _, clip := range plan {
		args = append(args, "-i", clip.Path)
	}
	audioIndex := len(plan)
	args = append(args, "-i", req.AudioPath)

	graph := footageGraph(plan, opts.Width, opts.Height, opts.FPS, req.AudioSeconds)
	var filters []string
	if opts.BurnSubtitles {
		filters = captionFilters(req.Captions, opts.style())
	}
	graph += ";" + chain("vcat", filters)

	args = append(args,
		"-filter_complex", graph,
		"-map", "[v]", "-map", strconv.Itoa(audioIndex)+":a",
	)
	args = append(args, outputArgs(encoder, opts.FPS, req.AudioSeconds, req.OutputPath)...)
	return args, encoder, plan, nil
}

func outputArgs(encoder EncoderSettings, fps int, audioSeconds float64, output string) []string {
	args := append([]string{}, encoder.Args()...)
	return append(args,
		"-pix_fmt", "yuv420p",
		"-r", strconv.Itoa(fps),
		"-c:a", "aac", "-b:a", audioBitrate,
		"-movflags", "+faststart",
		"-shortest",
		"-t", strconv.FormatFloat(audioSeconds, 'f', 3, 64),
		"-progress", "pipe:1", "-nostats",
		output,
	)
}

func checkCommon(mode Mode, audioPath, outputPath string, audioSeconds float64, opts Options) error {
	switch {
	case strings.TrimSpace(audioPath) == "":
		return services.Wrap(services.ErrValidation, "compose", string(mode), "audio path is required", nil)
	case strings.TrimSpace(outputPath) == "":
		return services.Wrap(services.ErrValidation, "compose", string(mode), "output path is required", nil)
	case audioSeconds <= 0:
		return services.Wrap(services.ErrValidation, "compose", string(mode), "audio duration must be positive", nil)
	}
	if err := opts.validate(); err != nil {
		return services.Wrap(services.ErrValidation, "compose", string(mode), err.Error(), nil)
	}
	return nil
}

func (c *Compositor) render(ctx context.Context, mode Mode, output string, audioSeconds float64, args []string, encoder EncoderSettings, clips int) (Result, error) {
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return Result{}, services.Wrap(services.ErrComposition, "compose", string(mode), "create output dir", err)
	}
	logger := logging.WithContext(ctx, c.logger)
	tracker := newProgressTracker(ctx, c.logger, mode, audioSeconds)
	cmd := cmdexec.Command{
		Binary:   c.ffmpeg,
		Args:     args,
		Timeout:  c.timeout,
		OnStdout: tracker.handle,
	}
	logger.Info("render started",
		logging.String("mode", string(mode)),
		logging.String("encoder", encoder.Codec),
		logging.String("preset", encoder.Preset),
		logging.Seconds("audio_seconds", audioSeconds),
		logging.Int("clips", clips),
		logging.String(logging.FieldEventType, "render_start"),
	)
	logger.Debug("ffmpeg command", logging.String("command", cmd.String()))

	res, err := c.exec.Run(ctx, cmd)
	if err != nil {
		_ = os.Remove(output)
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, cmdexec.ErrTimeout) {
			return Result{}, services.Wrap(services.ErrComposition, "compose", string(mode), "cancelled", ctxErr)
		}
		return Result{}, &CompositionError{Mode: mode, ExitCode: res.ExitCode, Stderr: res.StderrTail(stderrTail), Err: err}
	}
	if !res.Success() {
		_ = os.Remove(output)
		return Result{}, &CompositionError{Mode: mode, ExitCode: res.ExitCode, Stderr: res.StderrTail(stderrTail)}
	}
	logger.Info("render finished",
		logging.String("mode", string(mode)),
		logging.String("output", output),
		logging.Duration("elapsed", res.Duration),
		logging.String(logging.FieldEventType, "render_complete"),
	)
	return Result{
		Mode:       mode,
		OutputPath: output,
		Encoder:    encoder.Codec,
		Clips:      clips,
		Elapsed:    res.Duration,
		Command:    cmd.String(),
	}, nil
}
