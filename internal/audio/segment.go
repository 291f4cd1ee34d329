package audio

import (
	"fmt"
	"sort"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/media/wav"
)

// SegmentKind distinguishes synthesized speech from inserted silence.
type SegmentKind string

const (
	KindAudio   SegmentKind = "audio"
	KindSilence SegmentKind = "silence"
)

// Segment is one ordered piece of the final audio track. SectionIndex uses
// half-integers (2.5) for the pause between sections 2 and 3.
type Segment struct {
	Audio        []byte
	SectionIndex float64
	SectionTitle string
	Kind         SegmentKind
	// Placeholder marks silence standing in for a section that failed to synthesize.
	Placeholder bool
}

// IsContainer reports whether the segment carries its own WAV header.
func (s Segment) IsContainer() bool {
	return wav.IsContainer(s.Audio)
}

func (s Segment) String() string {
	label := string(s.Kind)
	if s.Placeholder {
		label = "placeholder"
	}
	return fmt.Sprintf("%g:%s(%d bytes)", s.SectionIndex, label, len(s.Audio))
}

// SortSegments orders segments by SectionIndex, keeping the relative order
// of equal indexes.
func SortSegments(segments []Segment) {
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].SectionIndex < segments[j].SectionIndex
	})
}
