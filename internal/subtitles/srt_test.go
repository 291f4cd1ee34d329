package subtitles

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormatAndParseTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{1.2346, "00:00:01,235"},
		{3723.5, "01:02:03,500"},
		{-4, "00:00:00,000"},
	}
	for _, tt := range tests {
		if got := FormatTimestamp(tt.seconds); got != tt.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
	if got, err := ParseSRTTimestamp("01:02:03.500"); err != nil || got != 3723.5 {
		t.Fatalf("ParseSRTTimestamp = %v, %v", got, err)
	}
	for _, bad := range []string{"", "12:00", "aa:bb:cc,ddd"} {
		if _, err := ParseSRTTimestamp(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestWriteSRTRoundTrip(t *testing.T) {
	segments := []Segment{
		{Index: 1, Text: "Hello there.", Start: 0, End: 1.5, SectionTitle: "Intro"},
		{Index: 2, Text: "General Kenobi.", Start: 1.8, End: 3.25, SectionTitle: "Body"},
	}
	path := filepath.Join(t.TempDir(), "nested", "captions.srt")
	if err := WriteSRT(path, segments); err != nil {
		t.Fatalf("WriteSRT: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "1\n00:00:00,000 --> 00:00:01,500\nHello there.\n\n2\n00:00:01,800 --> 00:00:03,250\nGeneral Kenobi.\n"
	if string(data) != want {
		t.Fatalf("unexpected srt:\n%s", data)
	}
	parsed := ParseSRT(string(data))
	if len(parsed) != 2 || math.Abs(parsed[1].Start-1.8) > 1e-9 || parsed[1].Text != "General Kenobi." {
		t.Fatalf("ParseSRT = %+v", parsed)
	}
}

func TestValidate(t *testing.T) {
	if issues := Validate(nil, 10); len(issues) != 1 || issues[0] != "empty_subtitle_file" {
		t.Fatalf("issues = %v", issues)
	}
	overlapping := []Segment{{Start: 0, End: 2}, {Start: 1.5, End: 3}}
	issues := Validate(overlapping, 2)
	if len(issues) != 2 || !strings.HasPrefix(issues[0], "overlap") || !strings.HasPrefix(issues[1], "duration_mismatch") {
		t.Fatalf("issues = %v", issues)
	}
}
