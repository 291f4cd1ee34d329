package audio

import (
	"fmt"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/media/wav"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/services"
)

// Combine concatenates segment buffers in the order given into one
// playable WAV file. The first container's header is kept at the front;
// later containers contribute only their sample payload and raw buffers
// (silence) are appended whole. Size fields are rewritten to the final
// length. A single segment is returned unchanged and an empty input
// yields an empty buffer. Containers must share the first container's
// format; use Conform to resample them beforehand.
func Combine(segments []Segment) ([]byte, error) {
	switch len(segments) {
	case 0:
		return []byte{}, nil
	case 1:
		return segments[0].Audio, nil
	}

	headerIdx := -1
	var header wav.Header
	for i, segment := range segments {
		if !wav.IsContainer(segment.Audio) {
			continue
		}
		parsed, err := wav.ParseHeader(segment.Audio)
		if err != nil {
			return nil, services.Wrap(services.ErrAssembly, "assembly", "parse header",
				fmt.Sprintf("segment %g", segment.SectionIndex), err)
		}
		headerIdx, header = i, parsed
		break
	}
	if headerIdx < 0 {
		return nil, services.Wrap(services.ErrAssembly, "assembly", "combine",
			fmt.Sprintf("no WAV container among %d segments", len(segments)), nil)
	}

	for _, segment := range segments[headerIdx+1:] {
		if !wav.IsContainer(segment.Audio) {
			continue
		}
		parsed, err := wav.ParseHeader(segment.Audio)
		if err != nil {
			return nil, services.Wrap(services.ErrAssembly, "assembly", "parse header",
				fmt.Sprintf("segment %g", segment.SectionIndex), err)
		}
		if parsed.Format != header.Format {
			return nil, services.Wrap(services.ErrAssembly, "assembly", "combine",
				fmt.Sprintf("segment %g is %s, track is %s", segment.SectionIndex, parsed.Format, header.Format), nil)
		}
	}

	total := header.DataOffset
	for _, segment := range segments {
		total += len(Payload(segment.Audio))
	}
	out := make([]byte, 0, total)
	out = append(out, segments[headerIdx].Audio[:header.DataOffset]...)
	for _, segment := range segments {
		out = append(out, Payload(segment.Audio)...)
	}

	if err := wav.RewriteSizeFields(out); err != nil {
		return nil, services.Wrap(services.ErrAssembly, "assembly", "rewrite sizes", "", err)
	}
	return out, nil
}

// Payload returns the sample bytes of buf: the data chunk of a container, or
// the whole buffer when it carries no parseable header.
func Payload(buf []byte) []byte {
	hdr, err := wav.ParseHeader(buf)
	if err != nil {
		return buf
	}
	return buf[hdr.DataOffset : hdr.DataOffset+hdr.DataSize]
}

// Duration returns the playback length of a combined buffer in seconds.
func Duration(buf []byte) (float64, error) {
	seconds, err := wav.Duration(buf)
	if err != nil {
		return 0, services.Wrap(services.ErrAssembly, "assembly", "duration", "", err)
	}
	return seconds, nil
}
