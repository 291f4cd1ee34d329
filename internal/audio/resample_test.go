package audio_test

import (
	"context"
	"errors"
	"math"
	"os"
	"strconv"
	"testing"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/audio"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/cmdexec"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/media/wav"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/services"
)

var (
	xtts24k  = wav.Format{AudioFormat: wav.FormatPCM, Channels: 1, SampleRate: 24000, BitsPerSample: 16}
	vits2205 = wav.Format{AudioFormat: wav.FormatPCM, Channels: 1, SampleRate: 22050, BitsPerSample: 16}
)

func tone(f wav.Format, seconds float64) []byte {
	return wav.Encode(f, make([]byte, f.BytesFor(seconds)))
}

func argAfter(args []string, flag string) string {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

// fakeResampler mimics ffmpeg: it reads the input, keeps its duration, and
// writes a container in the requested rate and channel count.
func fakeResampler(t *testing.T, calls *int) cmdexec.Executor {
	t.Helper()
	return cmdexec.Func(func(_ context.Context, cmd cmdexec.Command) (cmdexec.Result, error) {
		*calls++
		in, err := os.ReadFile(argAfter(cmd.Args, "-i"))
		if err != nil {
			t.Fatalf("read input: %v", err)
		}
		seconds, err := wav.Duration(in)
		if err != nil {
			t.Fatalf("input duration: %v", err)
		}
		rate, _ := strconv.Atoi(argAfter(cmd.Args, "-ar"))
		channels, _ := strconv.Atoi(argAfter(cmd.Args, "-ac"))
		if argAfter(cmd.Args, "-c:a") != "pcm_s16le" {
			t.Fatalf("codec = %q", argAfter(cmd.Args, "-c:a"))
		}
		target := wav.Format{AudioFormat: wav.FormatPCM, Channels: uint16(channels), SampleRate: uint32(rate), BitsPerSample: 16}
		out := cmd.Args[len(cmd.Args)-1]
		if err := os.WriteFile(out, tone(target, seconds), 0o644); err != nil {
			t.Fatalf("write output: %v", err)
		}
		return cmdexec.Result{}, nil
	})
}

func TestCombineRejectsMixedFormats(t *testing.T) {
	_, err := audio.Combine([]audio.Segment{
		{Audio: tone(xtts24k, 1), Kind: audio.KindAudio},
		{Audio: tone(vits2205, 1), Kind: audio.KindAudio, SectionIndex: 1},
	})
	if !errors.Is(err, services.ErrAssembly) {
		t.Fatalf("expected ErrAssembly, got %v", err)
	}
}

func TestConformResamplesMixedRates(t *testing.T) {
	var calls int
	segments := []audio.Segment{
		{Audio: tone(xtts24k, 10), Kind: audio.KindAudio},
		{Audio: wav.Silence(xtts24k, 0.5), Kind: audio.KindSilence, SectionIndex: 0.5},
		{Audio: tone(vits2205, 10), Kind: audio.KindAudio, SectionIndex: 1},
	}
	conformed, resampled, err := audio.Conform(context.Background(), segments, audio.Resampler{
		Exec: fakeResampler(t, &calls),
		Dir:  t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Conform: %v", err)
	}
	if resampled != 1 || calls != 1 {
		t.Fatalf("resampled = %d, calls = %d, want 1", resampled, calls)
	}
	if original, _ := wav.ParseHeader(segments[2].Audio); original.SampleRate != 22050 {
		t.Fatal("input segments must not be modified")
	}

	combined, err := audio.Combine(conformed)
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}
	hdr, err := wav.ParseHeader(combined)
	if err != nil || hdr.Format != xtts24k {
		t.Fatalf("combined format = %+v, %v", hdr.Format, err)
	}
	seconds, err := audio.Duration(combined)
	if err != nil {
		t.Fatalf("Duration: %v", err)
	}
	if math.Abs(seconds-20.5) > 1e-3 {
		t.Fatalf("Duration = %v, want 20.5", seconds)
	}
}

func TestConformSkipsMatchingFormats(t *testing.T) {
	var calls int
	segments := []audio.Segment{
		{Audio: tone(xtts24k, 1), Kind: audio.KindAudio},
		{Audio: tone(xtts24k, 1), Kind: audio.KindAudio, SectionIndex: 1},
	}
	_, resampled, err := audio.Conform(context.Background(), segments, audio.Resampler{Exec: fakeResampler(t, &calls)})
	if err != nil || resampled != 0 || calls != 0 {
		t.Fatalf("Conform = %d resampled, %d calls, %v", resampled, calls, err)
	}
}

func TestResampleReportsToolFailure(t *testing.T) {
	failing := cmdexec.Func(func(context.Context, cmdexec.Command) (cmdexec.Result, error) {
		return cmdexec.Result{ExitCode: 1, Stderr: []byte("Invalid sample rate")}, nil
	})
	r := audio.Resampler{Exec: failing, Dir: t.TempDir()}
	if _, err := r.Resample(context.Background(), tone(vits2205, 1), xtts24k); !errors.Is(err, services.ErrAssembly) {
		t.Fatalf("expected ErrAssembly, got %v", err)
	}
	entries, err := os.ReadDir(r.Dir)
	if err != nil || len(entries) != 0 {
		t.Fatalf("temporary files left behind: %v, %v", entries, err)
	}
}
