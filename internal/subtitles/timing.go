package subtitles

import (
	"fmt"
	"math"
	"strings"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/config"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/script"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/textutil"
)

// PauseMode controls how inter-section pauses relate to the audio length.
type PauseMode string

const (
	// PauseInclusive carves pauses out of the audio duration, so the last
	// caption ends exactly at the end of the audio.
	PauseInclusive PauseMode = "inclusive"
	// PauseAdditive gives sections the full audio duration and adds pauses
	// on top, so captions span the audio plus every pause.
	PauseAdditive PauseMode = "additive"
)

// Segment is one caption.
type Segment struct {
	Index        int
	Text         string
	Start        float64
	End          float64
	SectionTitle string
}

// Duration returns End - Start.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

func (s Segment) String() string {
	return fmt.Sprintf("#%d %s --> %s %q", s.Index, FormatTimestamp(s.Start), FormatTimestamp(s.End), s.Text)
}

// Options controls chunking and pauses.
type Options struct {
	MaxSentencesPerChunk  int
	FallbackWordsPerChunk int
	PauseSeconds          float64
	PauseMode             PauseMode
}

// DefaultOptions returns two-sentence chunks, twelve-word fallback chunks,
// and a 0.3s inclusive pause.
func DefaultOptions() Options {
	return Options{
		MaxSentencesPerChunk:  2,
		FallbackWordsPerChunk: 12,
		PauseSeconds:          0.3,
		PauseMode:             PauseInclusive,
	}
}

// OptionsFromConfig maps the subtitles config section onto timing options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		MaxSentencesPerChunk:  cfg.Subtitles.MaxSentencesPerChunk,
		FallbackWordsPerChunk: cfg.Subtitles.FallbackWordsPerChunk,
		PauseSeconds:          cfg.Subtitles.SectionPauseSeconds,
		PauseMode:             PauseMode(cfg.Subtitles.PauseMode),
	}
}

func (o Options) withDefaults() Options {
	defaults := DefaultOptions()
	if o.MaxSentencesPerChunk <= 0 {
		o.MaxSentencesPerChunk = defaults.MaxSentencesPerChunk
	}
	if o.FallbackWordsPerChunk <= 0 {
		o.FallbackWordsPerChunk = defaults.FallbackWordsPerChunk
	}
	if o.PauseSeconds < 0 {
		o.PauseSeconds = 0
	}
	if o.PauseMode != PauseAdditive {
		o.PauseMode = PauseInclusive
	}
	return o
}

// Chunk splits section text into caption-sized pieces: groups of up to
// maxSentences sentences, or fixed word windows when the text has no
// sentence punctuation.
func Chunk(text string, maxSentences, fallbackWords int) []string {
	text = textutil.CleanText(text)
	if text == "" {
		return nil
	}
	if !textutil.HasSentenceBoundary(text) {
		return textutil.ChunkWords(text, fallbackWords)
	}
	return textutil.ChunkSentences(textutil.SplitSentences(text), maxSentences)
}

type timedSection struct {
	section script.Section
	words   int
	chunks  []string
}

// ComputeTiming assigns start and end times to caption chunks. Each
// section's share of the speech time is proportional to its word count;
// sections without words produce no captions. The result is deterministic
// and never overlaps.
func ComputeTiming(sections []script.Section, totalSeconds float64, opts Options) []Segment {
	opts = opts.withDefaults()
	if totalSeconds <= 0 || math.IsNaN(totalSeconds) || math.IsInf(totalSeconds, 0) {
		return nil
	}

	var (
		timed      []timedSection
		totalWords int
	)
	for _, section := range script.Sorted(sections) {
		chunks := Chunk(section.Content, opts.MaxSentencesPerChunk, opts.FallbackWordsPerChunk)
		words := textutil.WordCount(strings.Join(chunks, " "))
		if words == 0 {
			continue
		}
		timed = append(timed, timedSection{section: section, words: words, chunks: chunks})
		totalWords += words
	}
	if totalWords == 0 {
		return nil
	}

	pause := opts.PauseSeconds
	pauses := float64(len(timed)-1) * pause
	speech := totalSeconds
	if opts.PauseMode == PauseInclusive {
		speech = totalSeconds - pauses
		if speech <= 0 {
			pause, speech = 0, totalSeconds
		}
	}

	segments := make([]Segment, 0, len(timed)*2)
	cursor := 0.0
	for i, ts := range timed {
		if i > 0 {
			cursor += pause
		}
		sectionSeconds := float64(ts.words) / float64(totalWords) * speech
		chunkSeconds := sectionSeconds / float64(len(ts.chunks))
		for j, text := range ts.chunks {
			start := cursor
			end := cursor + chunkSeconds
			if j == len(ts.chunks)-1 {
				end = start + (sectionSeconds - chunkSeconds*float64(j))
			}
			segments = append(segments, Segment{
				Index:        len(segments) + 1,
				Text:         text,
				Start:        start,
				End:          end,
				SectionTitle: ts.section.Title,
			})
			cursor = end
		}
	}

	if opts.PauseMode == PauseInclusive {
		last := &segments[len(segments)-1]
		last.End = math.Min(last.End, totalSeconds)
	}
	return segments
}

// Span returns the end time of the last segment.
func Span(segments []Segment) float64 {
	if len(segments) == 0 {
		return 0
	}
	return segments[len(segments)-1].End
}
