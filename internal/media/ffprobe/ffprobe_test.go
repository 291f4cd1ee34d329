package ffprobe

import (
	"context"
	"math"
	"slices"
	"testing"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/cmdexec"
)

const sampleJSON = `{
  "streams": [
    {"index": 0, "codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080, "r_frame_rate": "30000/1001", "duration": "12.012"},
    {"index": 1, "codec_type": "audio", "codec_name": "aac", "sample_rate": "48000", "channels": 2, "duration": "12.000"}
  ],
  "format": {"filename": "clip.mp4", "duration": "12.012000", "size": "1000", "format_name": "mov,mp4"}
}`

func TestInspectParsesOutput(t *testing.T) {
	var seen cmdexec.Command
	prober := New("", WithExecutor(cmdexec.Func(func(_ context.Context, cmd cmdexec.Command) (cmdexec.Result, error) {
		seen = cmd
		return cmdexec.Result{Stdout: []byte(sampleJSON)}, nil
	})))

	result, err := prober.Inspect(context.Background(), "/tmp/clip.mp4")
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}
	if seen.Binary != "ffprobe" || !slices.Contains(seen.Args, "-show_streams") || seen.Args[len(seen.Args)-1] != "/tmp/clip.mp4" {
		t.Fatalf("unexpected command: %+v", seen)
	}
	video, ok := result.VideoStream()
	if !ok || video.Width != 1920 {
		t.Fatalf("unexpected video stream: %+v", video)
	}
	if math.Abs(video.FPS()-29.97) > 0.01 {
		t.Fatalf("FPS = %v", video.FPS())
	}
	if result.AudioStreamCount() != 1 {
		t.Fatalf("AudioStreamCount = %d", result.AudioStreamCount())
	}

	seconds, err := prober.Duration(context.Background(), "/tmp/clip.mp4")
	if err != nil || math.Abs(seconds-12.012) > 1e-9 {
		t.Fatalf("Duration = %v, %v", seconds, err)
	}
}

func TestInspectReportsFailure(t *testing.T) {
	prober := New("ffprobe", WithExecutor(cmdexec.Func(func(context.Context, cmdexec.Command) (cmdexec.Result, error) {
		return cmdexec.Result{ExitCode: 1, Stderr: []byte("clip.mp4: Invalid data found")}, nil
	})))
	if _, err := prober.Inspect(context.Background(), "clip.mp4"); err == nil {
		t.Fatal("expected error on non-zero exit")
	}
	if _, err := prober.Inspect(context.Background(), " "); err == nil {
		t.Fatal("expected error on empty path")
	}
}

func TestDurationFallsBackToStreams(t *testing.T) {
	result := Result{
		Streams: []Stream{{Duration: "3.5"}, {Duration: "4.25"}},
		Format:  Format{Duration: "N/A"},
	}
	if got := result.DurationSeconds(); got != 4.25 {
		t.Fatalf("DurationSeconds = %v", got)
	}
	if !math.IsNaN((Result{Format: Format{Duration: "bad"}}).DurationSeconds()) {
		t.Fatal("expected NaN for unparseable duration")
	}
}

func TestParseRate(t *testing.T) {
	tests := map[string]float64{
		"25":         25,
		"30000/1001": 30000.0 / 1001.0,
		"0/0":        0,
		"":           0,
		"x/1":        0,
	}
	for in, want := range tests {
		if got := ParseRate(in); math.Abs(got-want) > 1e-9 {
			t.Errorf("ParseRate(%q) = %v, want %v", in, got, want)
		}
	}
}
