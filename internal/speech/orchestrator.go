package speech

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/audio"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/config"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/logging"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/media/wav"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/script"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/services"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/services/tts"
)

// Phase is the orchestrator's position in a run.
type Phase string

const (
	PhasePending         Phase = "pending"
	PhaseBatching        Phase = "batching"
	PhasePartiallyFailed Phase = "partially_failed"
	PhaseFinalizing      Phase = "finalizing"
	PhaseDone            Phase = "done"
)

// Options controls batching, pauses, and placeholder silence.
type Options struct {
	BatchSize            int
	PauseBetweenSections bool
	PauseSeconds         float64
	PlaceholderSeconds   float64
	// SampleRate is used for silence when no section synthesized.
	SampleRate int
}

// OptionsFromConfig maps configuration onto orchestrator options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		BatchSize:            cfg.Speech.BatchSize,
		PauseBetweenSections: cfg.Speech.PauseBetweenSections,
		PauseSeconds:         cfg.Speech.PauseSeconds,
		PlaceholderSeconds:   cfg.Speech.PlaceholderSeconds,
		SampleRate:           cfg.Synthesis.SampleRate,
	}
}

// Request carries the per-run voice and the caller's capability snapshot.
type Request struct {
	Voice tts.VoiceOptions
	Caps  tts.EngineCapabilities
}

// Outcome is the tagged result of synthesizing one section: either a
// segment or the error that prevented it.
type Outcome struct {
	Section script.Section
	Segment audio.Segment
	Err     error
	Retried bool
}

// Ok reports whether the section produced audio.
func (o Outcome) Ok() bool {
	return o.Err == nil
}

// Result is the ordered output of a run.
type Result struct {
	Segments []audio.Segment
	// Caps is the merged snapshot after the run; CUDA may have been demoted.
	Caps         tts.EngineCapabilities
	Placeholders int
	// Failures lists sections that ended as placeholders, with their final error.
	Failures []Outcome
	Phase    Phase
}

// Orchestrator runs section synthesis for a job.
type Orchestrator struct {
	synth  tts.Synthesizer
	opts   Options
	logger *slog.Logger

	mu   sync.Mutex
	caps tts.EngineCapabilities
}

// New constructs an orchestrator around a synthesizer.
func New(synth tts.Synthesizer, opts Options, logger *slog.Logger) *Orchestrator {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 1
	}
	if opts.SampleRate <= 0 {
		opts.SampleRate = 22050
	}
	return &Orchestrator{
		synth:  synth,
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "speech"),
	}
}

// Run synthesizes every section and returns segments sorted by section
// index. Only context cancellation or a run in which no section produced
// audio is reported as an error.
func (o *Orchestrator) Run(ctx context.Context, sections []script.Section, req Request) (Result, error) {
	ctx = services.WithStage(ctx, "speech")
	logger := logging.WithContext(ctx, o.logger)
	result := Result{Phase: PhasePending}
	if len(sections) == 0 {
		return result, services.Wrap(services.ErrValidation, "speech", "run", "no sections", nil)
	}
	ordered := script.Sorted(sections)

	o.seedCaps(ctx, req.Caps)

	result.Phase = o.transition(logger, result.Phase, PhaseBatching)
	outcomes := make([]Outcome, len(ordered))
	for start := 0; start < len(ordered); start += o.opts.BatchSize {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		end := min(start+o.opts.BatchSize, len(ordered))
		o.runBatch(ctx, ordered[start:end], req.Voice, outcomes[start:end])
		logger.Debug("synthesis batch finished",
			logging.Int("batch_start", start),
			logging.Int("batch_size", end-start),
		)
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	var failed []int
	for i, outcome := range outcomes {
		if !outcome.Ok() {
			failed = append(failed, i)
		}
	}
	if len(failed) > 0 {
		result.Phase = o.transition(logger, result.Phase, PhasePartiallyFailed)
		for _, i := range failed {
			retry := o.synthesize(ctx, ordered[i], req.Voice.AsConservative())
			retry.Retried = true
			if retry.Ok() {
				logger.Info("section recovered with conservative settings",
					logging.Int(logging.FieldSection, ordered[i].OrderIndex),
					logging.String("section_title", ordered[i].Title),
				)
			}
			outcomes[i] = retry
			if err := ctx.Err(); err != nil {
				return result, err
			}
		}
	}

	result.Phase = o.transition(logger, result.Phase, PhaseFinalizing)
	format, ok := silenceFormat(outcomes)
	if !ok {
		format = wav.Format{AudioFormat: wav.FormatPCM, Channels: 1, SampleRate: uint32(o.opts.SampleRate), BitsPerSample: 16}
	}

	segments := make([]audio.Segment, 0, 2*len(ordered))
	for i, outcome := range outcomes {
		section := ordered[i]
		if outcome.Ok() {
			segments = append(segments, outcome.Segment)
		} else {
			segments = append(segments, audio.Segment{
				Audio:        wav.Silence(format, o.opts.PlaceholderSeconds),
				SectionIndex: float64(section.OrderIndex),
				SectionTitle: section.Title,
				Kind:         audio.KindSilence,
				Placeholder:  true,
			})
			result.Placeholders++
			result.Failures = append(result.Failures, outcome)
			logging.WarnWithContext(logger, "section synthesis failed twice; inserted placeholder silence", "placeholder_inserted",
				logging.Int(logging.FieldSection, section.OrderIndex),
				logging.String("section_title", section.Title),
				logging.Seconds("placeholder_seconds", o.opts.PlaceholderSeconds),
				logging.String(logging.FieldErrorKind, services.Kind(outcome.Err)),
				logging.Error(outcome.Err),
				logging.String(logging.FieldErrorHint, "inspect the section text and synthesis engine logs"),
				logging.String(logging.FieldImpact, "section is silent in the final video"),
			)
		}
		if o.opts.PauseBetweenSections && i < len(ordered)-1 {
			segments = append(segments, audio.Segment{
				Audio:        wav.Silence(format, o.opts.PauseSeconds),
				SectionIndex: float64(section.OrderIndex) + 0.5,
				SectionTitle: section.Title,
				Kind:         audio.KindSilence,
			})
		}
	}
	audio.SortSegments(segments)

	result.Segments = segments
	result.Caps = o.Caps()
	if result.Placeholders == len(ordered) {
		return result, services.Wrap(services.ErrSynthesis, "speech", "run",
			fmt.Sprintf("all %d sections failed to synthesize", len(ordered)), outcomes[len(outcomes)-1].Err)
	}
	result.Phase = o.transition(logger, result.Phase, PhaseDone)
	return result, nil
}

// Caps returns the orchestrator's current capability snapshot.
func (o *Orchestrator) Caps() tts.EngineCapabilities {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.caps
}

func (o *Orchestrator) seedCaps(ctx context.Context, caps tts.EngineCapabilities) {
	o.mu.Lock()
	probed := o.caps.Probed
	o.mu.Unlock()
	if !caps.Probed && !probed {
		caps = o.synth.Probe(ctx)
	}
	o.mergeCaps(caps)
}

func (o *Orchestrator) mergeCaps(caps tts.EngineCapabilities) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.caps = o.caps.Merge(caps)
}

func (o *Orchestrator) runBatch(ctx context.Context, batch []script.Section, voice tts.VoiceOptions, into []Outcome) {
	var g errgroup.Group
	g.SetLimit(o.opts.BatchSize)
	for i, section := range batch {
		g.Go(func() error {
			into[i] = o.synthesize(ctx, section, voice)
			return nil
		})
	}
	_ = g.Wait()
}

func (o *Orchestrator) synthesize(ctx context.Context, section script.Section, voice tts.VoiceOptions) Outcome {
	ctx = services.WithSection(ctx, section.OrderIndex)
	out, err := o.synth.Synthesize(ctx, section.Text(), voice, o.Caps())
	if out.Caps.Probed {
		o.mergeCaps(out.Caps)
	}
	outcome := Outcome{Section: section, Err: err}
	if err == nil {
		outcome.Segment = audio.Segment{
			Audio:        out.Audio,
			SectionIndex: float64(section.OrderIndex),
			SectionTitle: section.Title,
			Kind:         audio.KindAudio,
		}
		return outcome
	}
	logging.WithContext(ctx, o.logger).Debug("section synthesis failed",
		logging.String("section_title", section.Title),
		logging.Bool("conservative", voice.Conservative),
		logging.Error(err),
	)
	return outcome
}

func (o *Orchestrator) transition(logger *slog.Logger, from, to Phase) Phase {
	logger.Info("speech phase", logging.String("from", string(from)), logging.String("to", string(to)))
	return to
}

func silenceFormat(outcomes []Outcome) (wav.Format, bool) {
	for _, outcome := range outcomes {
		if !outcome.Ok() {
			continue
		}
		hdr, err := wav.ParseHeader(outcome.Segment.Audio)
		if err == nil && hdr.Valid() {
			return hdr.Format, true
		}
	}
	return wav.Format{}, false
}
