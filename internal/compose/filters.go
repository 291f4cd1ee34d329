package compose

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/subtitles"
)

// concatTolerance is how close planned footage must get to the target.
const concatTolerance = 0.5

var (
	expansionEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`)
	optionEscaper    = strings.NewReplacer(`\`, `\\`, `'`, `\'`, `:`, `\:`)
	graphEscaper     = strings.NewReplacer(`\`, `\\`, `'`, `\'`, `[`, `\[`, `]`, `\]`, `,`, `\,`, `;`, `\;`)
)

// EscapeFilterValue escapes a user-supplied string for use as a filter
// option value inside a filtergraph. Both the option level (quotes, colons,
// backslashes) and the graph level (brackets, commas, semicolons) are
// escaped.
func EscapeFilterValue(value string) string {
	value = strings.Join(strings.Fields(value), " ")
	return graphEscaper.Replace(optionEscaper.Replace(value))
}

// EscapeDrawtext escapes text for drawtext's text option. drawtext expands
// the value once more after option parsing, where backslash and percent
// are special.
func EscapeDrawtext(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	return EscapeFilterValue(expansionEscaper.Replace(text))
}

// TitleCase capitalizes each word of the overlay text.
func TitleCase(text string) string {
	return cases.Title(language.English).String(strings.TrimSpace(text))
}

// Style controls drawn text.
type Style struct {
	FontColor string
	FontSize  int
	FontFile  string
}

func (s Style) fontArgs(size int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "fontcolor=%s:fontsize=%d", EscapeFilterValue(s.FontColor), size)
	if s.FontFile != "" {
		fmt.Fprintf(&b, ":fontfile=%s", EscapeFilterValue(s.FontFile))
	}
	return b.String()
}

// titleFilter draws text centered for the whole duration.
func titleFilter(text string, style Style) string {
	return fmt.Sprintf("drawtext=text=%s:%s:x=(w-text_w)/2:y=(h-text_h)/2",
		EscapeDrawtext(TitleCase(text)), style.fontArgs(style.FontSize))
}

// captionFilters returns one drawtext per caption, enabled only between its
// start and end.
func captionFilters(captions []subtitles.Segment, style Style) []string {
	size := max(style.FontSize*3/5, 12)
	filters := make([]string, 0, len(captions))
	for _, caption := range captions {
		text := strings.TrimSpace(caption.Text)
		if text == "" || caption.End <= caption.Start {
			continue
		}
		filters = append(filters, fmt.Sprintf(
			"drawtext=text=%s:%s:box=1:boxcolor=black@0.5:boxborderw=12:x=(w-text_w)/2:y=h-text_h-%d:enable='between(t,%.3f,%.3f)'",
			EscapeDrawtext(text), style.fontArgs(size), size*2, caption.Start, caption.End,
		))
	}
	return filters
}

// ClipInput is a downloaded clip ready for concatenation.
type ClipInput struct {
	Path     string
	Duration float64
}

// PlanConcat keeps clips in order until their combined duration is within
// half a second of target. It never adds a clip once that point is reached,
// so the plan overshoots by at most one clip. Clips without a path or
// duration are skipped.
func PlanConcat(clips []ClipInput, target float64) []ClipInput {
	var (
		plan  []ClipInput
		total float64
	)
	for _, clip := range clips {
		if total >= target-concatTolerance {
			break
		}
		if strings.TrimSpace(clip.Path) == "" || clip.Duration <= 0 {
			continue
		}
		plan = append(plan, clip)
		total += clip.Duration
	}
	return plan
}

// PlannedDuration sums clip durations.
func PlannedDuration(clips []ClipInput) float64 {
	var total float64
	for _, clip := range clips {
		total += clip.Duration
	}
	return total
}

// footageGraph normalizes each clip to the output geometry, concatenates
// them, and freezes the last frame when the clips run short of the audio.
func footageGraph(clips []ClipInput, width, height, fps int, audioSeconds float64) string {
	parts := make([]string, 0, len(clips)+1)
	labels := make([]string, 0, len(clips))
	for i := range clips {
		parts = append(parts, fmt.Sprintf(
			"[%d:v]scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2:color=black,setsar=1,fps=%d,format=yuv420p[v%d]",
			i, width, height, width, height, fps, i,
		))
		labels = append(labels, fmt.Sprintf("[v%d]", i))
	}
	concat := fmt.Sprintf("%sconcat=n=%d:v=1:a=0", strings.Join(labels, ""), len(clips))
	if deficit := audioSeconds - PlannedDuration(clips); deficit > 0 {
		concat += fmt.Sprintf(",tpad=stop_mode=clone:stop_duration=%.3f", deficit+1)
	}
	parts = append(parts, concat+"[vcat]")
	return strings.Join(parts, ";")
}

// chain appends filters to a labeled stream and names the result [v].
func chain(input string, filters []string) string {
	if len(filters) == 0 {
		return fmt.Sprintf("[%s]null[v]", input)
	}
	return fmt.Sprintf("[%s]%s[v]", input, strings.Join(filters, ","))
}
