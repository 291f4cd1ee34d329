package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/cmdexec"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/media/wav"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/services"
)

// Resampler converts WAV containers to another sample layout with ffmpeg.
type Resampler struct {
	Exec    cmdexec.Executor
	Binary  string
	Dir     string
	Timeout time.Duration
}

// Resample returns buf re-encoded as target.
func (r Resampler) Resample(ctx context.Context, buf []byte, target wav.Format) ([]byte, error) {
	codec, err := pcmCodec(target)
	if err != nil {
		return nil, services.Wrap(services.ErrAssembly, "assembly", "resample", target.String(), err)
	}
	in, err := os.CreateTemp(r.Dir, "resample-*.wav")
	if err != nil {
		return nil, services.Wrap(services.ErrAssembly, "assembly", "resample", "create input", err)
	}
	inPath := in.Name()
	outPath := inPath[:len(inPath)-len(filepath.Ext(inPath))] + "-out.wav"
	defer func() {
		_ = os.Remove(inPath)
		_ = os.Remove(outPath)
	}()
	if _, err := in.Write(buf); err != nil {
		_ = in.Close()
		return nil, services.Wrap(services.ErrAssembly, "assembly", "resample", "write input", err)
	}
	if err := in.Close(); err != nil {
		return nil, services.Wrap(services.ErrAssembly, "assembly", "resample", "write input", err)
	}

	exec := r.Exec
	if exec == nil {
		exec = cmdexec.Default()
	}
	binary := r.Binary
	if binary == "" {
		binary = "ffmpeg"
	}
	cmd := cmdexec.Command{
		Binary: binary,
		Args: []string{
			"-hide_banner", "-loglevel", "error", "-y",
			"-i", inPath,
			"-ar", strconv.Itoa(int(target.SampleRate)),
			"-ac", strconv.Itoa(int(target.Channels)),
			"-c:a", codec,
			outPath,
		},
		Timeout: r.Timeout,
	}
	res, err := exec.Run(ctx, cmd)
	if err != nil {
		return nil, services.Wrap(services.ErrAssembly, "assembly", "resample", cmd.String(), err)
	}
	if !res.Success() {
		return nil, services.Wrap(services.ErrAssembly, "assembly", "resample",
			fmt.Sprintf("exit %d: %s", res.ExitCode, res.StderrTail(5)), nil)
	}
	out, err := os.ReadFile(outPath)
	if err != nil {
		return nil, services.Wrap(services.ErrAssembly, "assembly", "resample", "read output", err)
	}
	hdr, err := wav.ParseHeader(out)
	if err != nil {
		return nil, services.Wrap(services.ErrAssembly, "assembly", "resample", "parse output", err)
	}
	if hdr.SampleRate != target.SampleRate || hdr.Channels != target.Channels || hdr.BitsPerSample != target.BitsPerSample {
		return nil, services.Wrap(services.ErrAssembly, "assembly", "resample",
			fmt.Sprintf("output is %s, want %s", hdr.Format, target), nil)
	}
	// ffmpeg may write an extensible fmt chunk; re-wrap in the canonical header.
	return wav.Encode(target, out[hdr.DataOffset:hdr.DataOffset+hdr.DataSize]), nil
}

// Conform resamples every container whose format differs from the first
// container's, so Combine can splice them. Raw buffers are left alone; they
// are expected to be in the reference format already. The number of
// resampled segments is returned alongside the copy.
func Conform(ctx context.Context, segments []Segment, r Resampler) ([]Segment, int, error) {
	out := make([]Segment, len(segments))
	copy(out, segments)

	var (
		reference wav.Format
		found     bool
		converted int
	)
	for i, segment := range out {
		if !segment.IsContainer() {
			continue
		}
		hdr, err := wav.ParseHeader(segment.Audio)
		if err != nil {
			return nil, 0, services.Wrap(services.ErrAssembly, "assembly", "parse header",
				fmt.Sprintf("segment %g", segment.SectionIndex), err)
		}
		if !found {
			reference, found = hdr.Format, true
			continue
		}
		if hdr.Format == reference {
			continue
		}
		buf, err := r.Resample(ctx, segment.Audio, reference)
		if err != nil {
			return nil, 0, err
		}
		out[i].Audio = buf
		converted++
	}
	return out, converted, nil
}

func pcmCodec(f wav.Format) (string, error) {
	switch f.AudioFormat {
	case wav.FormatPCM:
		switch f.BitsPerSample {
		case 8:
			return "pcm_u8", nil
		case 16:
			return "pcm_s16le", nil
		case 24:
			return "pcm_s24le", nil
		case 32:
			return "pcm_s32le", nil
		}
	case wav.FormatIEEEFloat:
		switch f.BitsPerSample {
		case 32:
			return "pcm_f32le", nil
		case 64:
			return "pcm_f64le", nil
		}
	}
	return "", fmt.Errorf("unsupported sample layout %s (format tag %d)", f, f.AudioFormat)
}
