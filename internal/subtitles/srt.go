package subtitles

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// roundingTolerance is how far a cue may run past the audio before
// validation flags it.
const roundingTolerance = 0.05

// FormatTimestamp renders seconds as an SRT timestamp (HH:MM:SS,mmm).
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	msTotal := int(seconds*1000 + 0.5)
	hours := msTotal / 3_600_000
	msTotal %= 3_600_000
	minutes := msTotal / 60_000
	msTotal %= 60_000
	secs := msTotal / 1_000
	millis := msTotal % 1_000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// ParseSRTTimestamp converts HH:MM:SS,mmm (or a period separator) to seconds.
func ParseSRTTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}

// FormatSRT renders segments as SRT cues numbered from 1.
func FormatSRT(segments []Segment) string {
	var b strings.Builder
	for i, seg := range segments {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n", i+1, FormatTimestamp(seg.Start), FormatTimestamp(seg.End), strings.TrimSpace(seg.Text))
	}
	return b.String()
}

// WriteSRT writes segments to path, creating parent directories.
func WriteSRT(path string, segments []Segment) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create subtitle dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(FormatSRT(segments)), 0o644); err != nil {
		return fmt.Errorf("write srt: %w", err)
	}
	return nil
}

// ParseSRT reads cues back from SRT text. Cues with unparseable timing
// lines are skipped.
func ParseSRT(content string) []Segment {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	var segments []Segment
	for _, block := range strings.Split(strings.TrimSpace(content), "\n\n") {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		timing := -1
		for i, line := range lines {
			if strings.Contains(line, "-->") {
				timing = i
				break
			}
		}
		if timing < 0 {
			continue
		}
		startText, endText, _ := strings.Cut(lines[timing], "-->")
		start, errStart := ParseSRTTimestamp(startText)
		end, errEnd := ParseSRTTimestamp(endText)
		if errStart != nil || errEnd != nil {
			continue
		}
		segments = append(segments, Segment{
			Index: len(segments) + 1,
			Text:  strings.Join(lines[timing+1:], "\n"),
			Start: start,
			End:   end,
		})
	}
	return segments
}

// Validate checks cue ordering and, when audioSeconds is positive, that no
// cue ends after the audio. An empty slice means validation passed.
func Validate(segments []Segment, audioSeconds float64) []string {
	if len(segments) == 0 {
		return []string{"empty_subtitle_file"}
	}
	var issues []string
	for i, seg := range segments {
		if seg.End < seg.Start {
			issues = append(issues, fmt.Sprintf("negative_duration: cue %d", i+1))
		}
		if i > 0 && seg.Start+1e-9 < segments[i-1].End {
			issues = append(issues, fmt.Sprintf("overlap: cue %d starts %.3fs before cue %d ends", i+1, segments[i-1].End-seg.Start, i))
		}
	}
	if audioSeconds > 0 {
		if over := Span(segments) - audioSeconds; over > roundingTolerance {
			issues = append(issues, fmt.Sprintf("duration_mismatch: delta=%.3fs", over))
		}
	}
	return issues
}
