package footage

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/config"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/logging"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/script"
)

// Clip is a selected stock clip and the rendition chosen for download.
type Clip struct {
	ID       int64
	URL      string
	PageURL  string
	Duration float64
	Quality  string
	Width    int
	Height   int
	FPS      float64
	Tags     []string
	Keyword  string
	Score    float64
}

func (c Clip) String() string {
	return fmt.Sprintf("clip %d (%.1fs %dx%d %s)", c.ID, c.Duration, c.Width, c.Height, c.Keyword)
}

// TotalDuration sums clip durations.
func TotalDuration(clips []Clip) float64 {
	return lo.SumBy(clips, func(c Clip) float64 { return c.Duration })
}

// Searcher is the search surface the selector needs; *Client satisfies it.
type Searcher interface {
	Search(ctx context.Context, q Query) (*SearchResponse, error)
}

// SelectorOptions tunes clip selection.
type SelectorOptions struct {
	MinClipSeconds     float64
	MaxClipSeconds     float64
	BufferFactor       float64
	KeywordsPerSection int
	ClipsPerKeyword    int
	MinHeight          int
	RelaxedMinHeight   int
	PerPage            int
	Orientation        string
	Size               string
	FallbackKeywords   []string
}

// SelectorOptionsFromConfig maps the footage config section onto selector options.
func SelectorOptionsFromConfig(cfg *config.Config) SelectorOptions {
	f := cfg.Footage
	return SelectorOptions{
		MinClipSeconds:     f.MinClipSeconds,
		MaxClipSeconds:     f.MaxClipSeconds,
		BufferFactor:       f.BufferFactor,
		KeywordsPerSection: f.KeywordsPerSection,
		ClipsPerKeyword:    f.ClipsPerKeyword,
		MinHeight:          f.MinHeight,
		RelaxedMinHeight:   f.RelaxedMinHeight,
		PerPage:            f.PerPage,
		Orientation:        f.Orientation,
		Size:               f.Size,
		FallbackKeywords:   append([]string(nil), f.FallbackKeywords...),
	}
}

func (o SelectorOptions) withDefaults() SelectorOptions {
	if o.MinClipSeconds <= 0 {
		o.MinClipSeconds = 3
	}
	if o.MaxClipSeconds < o.MinClipSeconds {
		o.MaxClipSeconds = 45
	}
	if o.BufferFactor < 1 {
		o.BufferFactor = 1.15
	}
	if o.KeywordsPerSection <= 0 {
		o.KeywordsPerSection = 6
	}
	if o.ClipsPerKeyword <= 0 {
		o.ClipsPerKeyword = 4
	}
	if o.MinHeight <= 0 {
		o.MinHeight = 720
	}
	if o.RelaxedMinHeight <= 0 || o.RelaxedMinHeight > o.MinHeight {
		o.RelaxedMinHeight = min(360, o.MinHeight)
	}
	if o.PerPage <= 0 {
		o.PerPage = defaultPerPage
	}
	return o
}

// Selector accumulates clips for a script.
type Selector struct {
	searcher Searcher
	opts     SelectorOptions
	logger   *slog.Logger
}

// NewSelector constructs a Selector.
func NewSelector(searcher Searcher, opts SelectorOptions, logger *slog.Logger) *Selector {
	return &Selector{
		searcher: searcher,
		opts:     opts.withDefaults(),
		logger:   logging.NewComponentLogger(logger, "footage-selector"),
	}
}

// Goal returns the clip coverage SelectClips aims for.
func (s *Selector) Goal(target float64) float64 {
	return target * s.opts.BufferFactor
}

type selection struct {
	goal  float64
	total float64
	seen  map[int64]struct{}
	clips []Clip
}

func (sel *selection) satisfied() bool {
	return sel.total >= sel.goal
}

// SelectClips gathers unique clips until their combined duration reaches
// target times the buffer factor. Search failures are logged and skipped,
// so a short or empty result is not an error; only cancellation is.
// The result is ordered longest clip first.
func (s *Selector) SelectClips(ctx context.Context, sections []script.Section, target float64) ([]Clip, error) {
	logger := logging.WithContext(ctx, s.logger)
	sel := &selection{goal: s.Goal(target), seen: make(map[int64]struct{})}
	if sel.goal <= 0 {
		return nil, nil
	}

	for _, section := range script.Sorted(sections) {
		if sel.satisfied() {
			break
		}
		keywords := ExtractKeywords(section.Title, section.Content, DefaultKeywordLimit)
		if len(keywords) > s.opts.KeywordsPerSection {
			keywords = keywords[:s.opts.KeywordsPerSection]
		}
		for _, keyword := range keywords {
			if sel.satisfied() {
				break
			}
			if err := s.collect(ctx, keyword, s.opts.MinHeight, sel); err != nil {
				return nil, err
			}
		}
	}

	if !sel.satisfied() && len(s.opts.FallbackKeywords) > 0 {
		logger.Info("footage coverage short, using fallback keywords",
			logging.Seconds("covered_seconds", sel.total),
			logging.Seconds("goal_seconds", sel.goal),
			logging.String(logging.FieldEventType, "footage_fallback"),
		)
		for _, keyword := range s.opts.FallbackKeywords {
			if sel.satisfied() {
				break
			}
			if err := s.collect(ctx, keyword, s.opts.RelaxedMinHeight, sel); err != nil {
				return nil, err
			}
		}
	}

	if !sel.satisfied() {
		logging.WarnWithContext(logger, "footage coverage below goal", "footage_under_coverage",
			logging.Seconds("covered_seconds", sel.total),
			logging.Seconds("goal_seconds", sel.goal),
			logging.Int("clips", len(sel.clips)),
			logging.String(logging.FieldImpact, "video may loop short or end on the last clip"),
			logging.String(logging.FieldErrorHint, "add fallback keywords or check the footage API key"),
		)
	}

	slices.SortStableFunc(sel.clips, func(a, b Clip) int {
		if c := cmp.Compare(b.Duration, a.Duration); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	logger.Info("footage selected",
		logging.Int("clips", len(sel.clips)),
		logging.Seconds("covered_seconds", sel.total),
		logging.Seconds("goal_seconds", sel.goal),
	)
	return sel.clips, nil
}

func (s *Selector) collect(ctx context.Context, keyword string, minHeight int, sel *selection) error {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil
	}
	resp, err := s.searcher.Search(ctx, Query{
		Query:       keyword,
		Orientation: s.opts.Orientation,
		Size:        s.opts.Size,
		Page:        1,
		PerPage:     s.opts.PerPage,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		logging.WarnWithContext(logging.WithContext(ctx, s.logger), "footage search failed", "footage_search_failed",
			logging.String("keyword", keyword),
			logging.Error(err),
			logging.String(logging.FieldImpact, "keyword skipped"),
		)
		return nil
	}
	if resp == nil {
		return nil
	}

	for _, clip := range s.rank(keyword, resp.Videos, minHeight, sel) {
		if sel.satisfied() {
			break
		}
		sel.seen[clip.ID] = struct{}{}
		sel.clips = append(sel.clips, clip)
		sel.total += clip.Duration
	}
	return nil
}

// rank returns the keyword's eligible clips best score first, capped at
// ClipsPerKeyword. API order breaks ties.
func (s *Selector) rank(keyword string, videos []Video, minHeight int, sel *selection) []Clip {
	candidates := make([]Clip, 0, len(videos))
	for _, video := range lo.UniqBy(videos, func(v Video) int64 { return v.ID }) {
		if _, dup := sel.seen[video.ID]; dup {
			continue
		}
		if video.Duration < s.opts.MinClipSeconds || video.Duration > s.opts.MaxClipSeconds {
			continue
		}
		file, ok := BestFile(video, minHeight)
		if !ok {
			continue
		}
		candidates = append(candidates, Clip{
			ID:       video.ID,
			URL:      file.Link,
			PageURL:  video.URL,
			Duration: video.Duration,
			Quality:  file.Quality,
			Width:    file.Width,
			Height:   file.Height,
			FPS:      file.FPS,
			Tags:     lo.Uniq(video.Tags),
			Keyword:  keyword,
			Score:    ScoreFile(file, video.Duration),
		})
	}
	slices.SortStableFunc(candidates, func(a, b Clip) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(candidates) > s.opts.ClipsPerKeyword {
		candidates = candidates[:s.opts.ClipsPerKeyword]
	}
	return candidates
}
