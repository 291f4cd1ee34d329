package tts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/cmdexec"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/config"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/logging"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/media/wav"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/services"
)

const (
	BackendCoqui  = "coqui"
	BackendEspeak = "espeak"
)

// Synthesizer is the contract the speech orchestrator depends on.
type Synthesizer interface {
	Probe(ctx context.Context) EngineCapabilities
	Synthesize(ctx context.Context, text string, opts VoiceOptions, caps EngineCapabilities) (Output, error)
}

// Output is the result of one synthesis call.
type Output struct {
	Audio []byte
	// Caps reflects any demotion that happened during the call.
	Caps    EngineCapabilities
	Model   string
	Command string
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec cmdexec.Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithLogger sets the logger used for probe and demotion events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, "tts")
	}
}

// WithTempDir sets where intermediate audio files are written.
func WithTempDir(dir string) Option {
	return func(c *Client) {
		if strings.TrimSpace(dir) != "" {
			c.tempDir = dir
		}
	}
}

// Client wraps a synthesis CLI.
type Client struct {
	backend      string
	binary       string
	defaultModel string
	cloneModel   string
	language     string
	speaker      string
	cudaMode     string
	timeout      time.Duration
	tempDir      string
	exec         cmdexec.Executor
	logger       *slog.Logger

	probeOnce sync.Once
	probed    EngineCapabilities
}

// New constructs a synthesis client from configuration.
func New(cfg config.Synthesis, opts ...Option) (*Client, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = BackendCoqui
	}
	if backend != BackendCoqui && backend != BackendEspeak {
		return nil, services.Wrap(services.ErrConfiguration, "synthesis", "new client", fmt.Sprintf("unknown backend %q", cfg.Backend), nil)
	}
	binary := strings.TrimSpace(cfg.Binary)
	if binary == "" {
		return nil, services.Wrap(services.ErrConfiguration, "synthesis", "new client", "synthesis binary required", nil)
	}
	if backend == BackendCoqui && strings.TrimSpace(cfg.DefaultModel) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "synthesis", "new client", "default model required", nil)
	}
	client := &Client{
		backend:      backend,
		binary:       binary,
		defaultModel: strings.TrimSpace(cfg.DefaultModel),
		cloneModel:   strings.TrimSpace(cfg.CloneModel),
		language:     strings.TrimSpace(cfg.Language),
		speaker:      strings.TrimSpace(cfg.Speaker),
		cudaMode:     strings.ToLower(strings.TrimSpace(cfg.CUDA)),
		timeout:      time.Duration(cfg.TimeoutSeconds) * time.Second,
		tempDir:      os.TempDir(),
		exec:         cmdexec.Default(),
		logger:       logging.NewComponentLogger(nil, "tts"),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Backend returns the configured backend name.
func (c *Client) Backend() string {
	return c.backend
}

// Synthesize renders text to a WAV buffer. A zero caps value triggers a
// probe. When the accelerated attempt fails with a CUDA signature the call is
// retried once on CPU and the returned caps record the demotion.
func (c *Client) Synthesize(ctx context.Context, text string, opts VoiceOptions, caps EngineCapabilities) (Output, error) {
	clean := SanitizeText(text)
	if clean == "" {
		return Output{Caps: caps}, services.Wrap(services.ErrSynthesis, "synthesis", "tts", "empty text", nil)
	}
	if !caps.Probed {
		caps = c.Probe(ctx)
	}
	if opts.Conservative {
		opts.Reference = ""
	}

	var model string
	if c.backend == BackendCoqui {
		model = SelectModel(caps, opts, c.defaultModel, c.cloneModel)
	} else {
		model = "espeak-ng:" + firstNonEmpty(opts.Language, c.language, "en")
	}
	req := request{
		text:  clean,
		model: model,
		opts:  opts,
		cuda:  caps.CUDA && !opts.Conservative && c.backend == BackendCoqui,
	}

	audio, cmd, diag, err := c.attempt(ctx, req)
	if err != nil && req.cuda && diag != "" && IsCUDAFailure(diag) && !isTerminal(err) {
		caps = caps.WithoutCUDA()
		logging.WarnWithContext(logging.WithContext(ctx, c.logger), "cuda failure detected; retrying on cpu", "synthesis_cuda_demoted",
			logging.String("model", model),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check GPU drivers and free GPU memory"),
			logging.String(logging.FieldImpact, "synthesis continues on cpu for the rest of the job"),
		)
		req.cuda = false
		audio, cmd, _, err = c.attempt(ctx, req)
	}
	return Output{Audio: audio, Caps: caps, Model: model, Command: cmd}, err
}

// attempt runs one engine invocation and returns the audio, the rendered
// command line, and the combined diagnostic output.
func (c *Client) attempt(ctx context.Context, req request) ([]byte, string, string, error) {
	if err := os.MkdirAll(c.tempDir, 0o755); err != nil {
		return nil, "", "", services.Wrap(services.ErrSynthesis, "synthesis", "prepare temp dir", c.tempDir, err)
	}
	req.outPath = filepath.Join(c.tempDir, "tts-"+uuid.NewString()+".wav")
	defer func() { _ = os.Remove(req.outPath) }()

	cmd := c.buildCommand(req)
	rendered := cmd.String()
	logger := logging.WithContext(ctx, c.logger)
	logger.Debug("synthesis command", logging.String("command", rendered), logging.Bool("cuda", req.cuda))

	res, err := c.exec.Run(ctx, cmd)
	diag := string(res.Stderr) + "\n" + string(res.Stdout)
	if err != nil {
		switch {
		case errors.Is(err, cmdexec.ErrTimeout):
			return nil, rendered, diag, services.Wrap(services.ErrSynthesisTimeout, "synthesis", "tts",
				fmt.Sprintf("no result after %s", c.timeout), err)
		case ctx.Err() != nil:
			return nil, rendered, diag, ctx.Err()
		default:
			return nil, rendered, diag, services.Wrap(services.ErrSynthesis, "synthesis", "tts", "run engine", err)
		}
	}
	if !res.Success() {
		return nil, rendered, diag, services.Wrap(services.ErrSynthesis, "synthesis", "tts",
			fmt.Sprintf("exit status %d: %s", res.ExitCode, res.StderrTail(5)), nil)
	}

	data, err := os.ReadFile(req.outPath)
	if err != nil {
		return nil, rendered, diag, services.Wrap(services.ErrSynthesis, "synthesis", "tts", "engine produced no output file", err)
	}
	if !wav.IsContainer(data) {
		return nil, rendered, diag, services.Wrap(services.ErrSynthesis, "synthesis", "tts",
			fmt.Sprintf("malformed output (%d bytes, not RIFF/WAVE)", len(data)), nil)
	}
	return data, rendered, diag, nil
}

func isTerminal(err error) bool {
	return errors.Is(err, services.ErrSynthesisTimeout) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
