package audio_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/audio"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/media/wav"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/services"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/testsupport"
)

func TestCombineEmptyAndSingle(t *testing.T) {
	out, err := audio.Combine(nil)
	if err != nil || len(out) != 0 {
		t.Fatalf("Combine(nil) = %d bytes, %v", len(out), err)
	}

	single := testsupport.WAV(t, 0.25)
	out, err = audio.Combine([]audio.Segment{{Audio: single, Kind: audio.KindAudio}})
	if err != nil {
		t.Fatalf("Combine single: %v", err)
	}
	if !bytes.Equal(out, single) {
		t.Fatal("single segment must be returned byte-identical")
	}

	raw := []byte{1, 2, 3}
	out, err = audio.Combine([]audio.Segment{{Audio: raw, Kind: audio.KindSilence}})
	if err != nil || !bytes.Equal(out, raw) {
		t.Fatalf("single raw segment should pass through, got %v, %v", out, err)
	}
}

func TestCombineSplicesPayloads(t *testing.T) {
	first := testsupport.WAV(t, 0.5)
	pause := testsupport.PCM(t, 0.25, 0x00)
	second := wav.Encode(testsupport.PCMFormat, testsupport.PCM(t, 1.0, 0x22))

	segments := []audio.Segment{
		{Audio: first, SectionIndex: 0, Kind: audio.KindAudio},
		{Audio: pause, SectionIndex: 0.5, Kind: audio.KindSilence},
		{Audio: second, SectionIndex: 1, Kind: audio.KindAudio},
	}
	out, err := audio.Combine(segments)
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}

	wantLen := len(first) + len(pause) + (len(second) - 44)
	if len(out) != wantLen {
		t.Fatalf("len = %d, want %d", len(out), wantLen)
	}
	if !bytes.Equal(out[8:40], first[8:40]) {
		t.Fatal("expected first header at front")
	}
	if got := binary.LittleEndian.Uint32(out[4:8]); int(got) != len(out)-8 {
		t.Fatalf("RIFF size = %d, want %d", got, len(out)-8)
	}
	if got := binary.LittleEndian.Uint32(out[40:44]); int(got) != len(out)-44 {
		t.Fatalf("data size = %d, want %d", got, len(out)-44)
	}
	if bytes.Contains(out[44:], []byte("RIFF")) {
		t.Fatal("later container headers must be stripped")
	}
	if out[len(out)-1] != 0x22 {
		t.Fatal("expected second payload at the tail")
	}

	seconds, err := audio.Duration(out)
	if err != nil {
		t.Fatalf("Duration: %v", err)
	}
	if math.Abs(seconds-1.75) > 1e-6 {
		t.Fatalf("Duration = %v, want 1.75", seconds)
	}
}

func TestCombineHeaderFromFirstContainer(t *testing.T) {
	lead := testsupport.PCM(t, 0.1, 0x00)
	body := testsupport.WAV(t, 0.2)
	out, err := audio.Combine([]audio.Segment{
		{Audio: lead, Kind: audio.KindSilence},
		{Audio: body, Kind: audio.KindAudio, SectionIndex: 1},
	})
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}
	if !wav.IsContainer(out) {
		t.Fatal("expected container output")
	}
	if len(out) != 44+len(lead)+len(body)-44 {
		t.Fatalf("unexpected length %d", len(out))
	}
	if out[44] != 0x00 || out[len(out)-1] != 0x11 {
		t.Fatal("expected lead silence before body payload")
	}
}

func TestCombineRejectsAllRaw(t *testing.T) {
	_, err := audio.Combine([]audio.Segment{
		{Audio: []byte{0, 0}, Kind: audio.KindSilence},
		{Audio: []byte{0, 0}, Kind: audio.KindSilence, SectionIndex: 1},
	})
	if !errors.Is(err, services.ErrAssembly) {
		t.Fatalf("expected ErrAssembly, got %v", err)
	}
}

func TestSortSegmentsIsStable(t *testing.T) {
	segments := []audio.Segment{
		{SectionIndex: 2, SectionTitle: "c"},
		{SectionIndex: 0.5, SectionTitle: "pause"},
		{SectionIndex: 0, SectionTitle: "a"},
		{SectionIndex: 2, SectionTitle: "c2"},
		{SectionIndex: 1, SectionTitle: "b"},
	}
	audio.SortSegments(segments)
	want := []string{"a", "pause", "b", "c", "c2"}
	for i, seg := range segments {
		if seg.SectionTitle != want[i] {
			t.Fatalf("position %d = %s, want %s", i, seg.SectionTitle, want[i])
		}
	}
}

func TestDurationRejectsRaw(t *testing.T) {
	if _, err := audio.Duration([]byte{1, 2, 3}); !errors.Is(err, services.ErrAssembly) {
		t.Fatalf("expected ErrAssembly, got %v", err)
	}
}
