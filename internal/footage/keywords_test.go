package footage

import (
	"math"
	"slices"
	"testing"
)

func TestExtractKeywords(t *testing.T) {
	got := ExtractKeywords("The Ocean's Depths", "Whales, dolphins and coral reefs! The ocean is vast; whales sing.", 10)
	want := []string{"dolphins", "depths", "oceans", "whales", "coral", "ocean", "reefs", "sing", "vast"}
	if !slices.Equal(got, want) {
		t.Fatalf("ExtractKeywords = %v, want %v", got, want)
	}
}

func TestExtractKeywordsDropsStopWordsAndShortTokens(t *testing.T) {
	got := ExtractKeywords("", "this that with from have them will the and for", 10)
	if len(got) != 0 {
		t.Fatalf("expected no keywords, got %v", got)
	}
}

func TestExtractKeywordsLimits(t *testing.T) {
	content := "alpha bravo charlie delta echoes foxtrot golfer hotel india juliet kilos lima mike november"
	if got := ExtractKeywords("", content, 3); len(got) != 3 || got[0] != "november" {
		t.Fatalf("limited keywords = %v", got)
	}
	if got := ExtractKeywords("", content, 0); len(got) != DefaultKeywordLimit {
		t.Fatalf("default limit gave %d keywords", len(got))
	}
}

func TestScoreFile(t *testing.T) {
	ideal := VideoFile{Width: 1920, Height: 1080, FPS: 30}
	if got := ScoreFile(ideal, 20); math.Abs(got-1) > 1e-9 {
		t.Fatalf("ideal score = %v", got)
	}
	tests := []struct {
		name   string
		better VideoFile
		worse  VideoFile
		dur    float64
	}{
		{"resolution", VideoFile{Width: 1920, Height: 1080, FPS: 25}, VideoFile{Width: 1280, Height: 720, FPS: 25}, 15},
		{"fps", VideoFile{Width: 1280, Height: 720, FPS: 60}, VideoFile{Width: 1280, Height: 720, FPS: 15}, 15},
		{"sd over nothing", VideoFile{Width: 640, Height: 360, FPS: 30}, VideoFile{FPS: 30}, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if ScoreFile(tt.better, tt.dur) <= ScoreFile(tt.worse, tt.dur) {
				t.Fatalf("expected %+v to outscore %+v", tt.better, tt.worse)
			}
		})
	}
	if ScoreFile(ideal, 20) <= ScoreFile(ideal, 5) || ScoreFile(ideal, 20) <= ScoreFile(ideal, 44) {
		t.Fatal("expected 10 to 30 second clips to score highest")
	}
}

func TestBestFile(t *testing.T) {
	video := Video{
		ID:       1,
		Duration: 12,
		Files: []VideoFile{
			{ID: 1, FileType: "video/mp4", Width: 640, Height: 360, FPS: 30, Link: "sd"},
			{ID: 2, FileType: "video/mp4", Width: 3840, Height: 2160, FPS: 30, Link: "uhd"},
			{ID: 3, FileType: "video/mp4", Width: 1920, Height: 1080, FPS: 30, Link: "hd"},
			{ID: 4, FileType: "video/webm", Width: 1920, Height: 1080, FPS: 30, Link: "webm"},
			{ID: 5, FileType: "video/mp4", Width: 1920, Height: 1080, FPS: 30},
		},
	}
	file, ok := BestFile(video, 720)
	if !ok || file.ID != 3 {
		t.Fatalf("BestFile = %+v, %v; want the 1080p rendition", file, ok)
	}
	low := Video{Duration: 12, Files: []VideoFile{{ID: 1, FileType: "video/mp4", Width: 640, Height: 360, Link: "sd"}}}
	if _, ok := BestFile(low, 720); ok {
		t.Fatal("expected no file above 720p")
	}
	if file, ok := BestFile(low, 360); !ok || file.ID != 1 {
		t.Fatalf("relaxed BestFile = %+v, %v", file, ok)
	}
}
