package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Format tags for the fmt chunk.
const (
	FormatPCM       uint16 = 1
	FormatIEEEFloat uint16 = 3
)

// canonicalHeaderSize is the RIFF, fmt, and data chunk preamble written by Encode.
const canonicalHeaderSize = 44

var (
	// ErrNotContainer reports a buffer without a RIFF/WAVE preamble.
	ErrNotContainer = errors.New("not a RIFF/WAVE container")
	// ErrMalformed reports a RIFF/WAVE buffer whose chunks cannot be walked.
	ErrMalformed = errors.New("malformed WAV container")
)

// Format describes the sample layout of a PCM stream.
type Format struct {
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	BitsPerSample uint16
}

// BlockAlign returns the byte size of one frame across all channels.
func (f Format) BlockAlign() int {
	return int(f.Channels) * int(f.BitsPerSample) / 8
}

// ByteRate returns bytes of payload per second of audio.
func (f Format) ByteRate() int {
	return int(f.SampleRate) * f.BlockAlign()
}

// Valid reports whether the format can describe a playable stream.
func (f Format) Valid() bool {
	return f.Channels > 0 && f.SampleRate > 0 && f.BitsPerSample > 0 && f.BitsPerSample%8 == 0
}

// Seconds converts a payload length in bytes into seconds of audio.
func (f Format) Seconds(payloadBytes int) float64 {
	rate := f.ByteRate()
	if rate <= 0 || payloadBytes <= 0 {
		return 0
	}
	return float64(payloadBytes) / float64(rate)
}

// BytesFor returns the frame-aligned payload length for seconds of audio.
func (f Format) BytesFor(seconds float64) int {
	if seconds <= 0 || !f.Valid() {
		return 0
	}
	frames := int(math.Round(seconds * float64(f.SampleRate)))
	return frames * f.BlockAlign()
}

func (f Format) String() string {
	return fmt.Sprintf("%dHz/%dch/%dbit", f.SampleRate, f.Channels, f.BitsPerSample)
}

// Header is the parsed layout of a RIFF/WAVE buffer.
type Header struct {
	Format
	// DataOffset is the index of the first payload byte.
	DataOffset int
	// DataSize is the payload length, clamped to the bytes actually present.
	DataSize int
}

// IsContainer reports whether buf starts with a RIFF/WAVE preamble.
func IsContainer(buf []byte) bool {
	return len(buf) >= 12 && bytes.Equal(buf[0:4], []byte("RIFF")) && bytes.Equal(buf[8:12], []byte("WAVE"))
}

// ParseHeader walks the chunk list up to the data chunk. The declared data
// size is trusted only as far as the buffer extends, since streamed encoders
// often leave it at zero or 0xFFFFFFFF.
func ParseHeader(buf []byte) (Header, error) {
	if !IsContainer(buf) {
		return Header{}, ErrNotContainer
	}
	var (
		hdr       Header
		sawFormat bool
	)
	offset := 12
	for offset+8 <= len(buf) {
		id := string(buf[offset : offset+4])
		size := int(binary.LittleEndian.Uint32(buf[offset+4 : offset+8]))
		body := offset + 8
		switch id {
		case "fmt ":
			if size < 16 || body+16 > len(buf) {
				return Header{}, fmt.Errorf("%w: short fmt chunk", ErrMalformed)
			}
			hdr.Format = Format{
				AudioFormat:   binary.LittleEndian.Uint16(buf[body : body+2]),
				Channels:      binary.LittleEndian.Uint16(buf[body+2 : body+4]),
				SampleRate:    binary.LittleEndian.Uint32(buf[body+4 : body+8]),
				BitsPerSample: binary.LittleEndian.Uint16(buf[body+14 : body+16]),
			}
			sawFormat = true
		case "data":
			if !sawFormat {
				return Header{}, fmt.Errorf("%w: data chunk before fmt", ErrMalformed)
			}
			hdr.DataOffset = body
			available := len(buf) - body
			if size <= 0 || size > available {
				size = available
			}
			hdr.DataSize = size
			return hdr, nil
		}
		next := body + size + size%2
		if next <= offset {
			return Header{}, fmt.Errorf("%w: chunk %q has invalid size", ErrMalformed, id)
		}
		offset = next
	}
	return Header{}, fmt.Errorf("%w: no data chunk", ErrMalformed)
}

// PayloadOffset returns where sample data begins. Raw buffers and containers
// that cannot be parsed report 0, so callers treat the whole buffer as payload.
func PayloadOffset(buf []byte) int {
	hdr, err := ParseHeader(buf)
	if err != nil {
		return 0
	}
	return hdr.DataOffset
}

// RewriteSizeFields sets the RIFF size to len(buf)-8 and the data chunk size
// to the bytes following the data chunk header.
func RewriteSizeFields(buf []byte) error {
	hdr, err := ParseHeader(buf)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(buf)-8))
	binary.LittleEndian.PutUint32(buf[hdr.DataOffset-4:hdr.DataOffset], uint32(len(buf)-hdr.DataOffset))
	return nil
}

// Encode wraps raw samples in a canonical 44-byte header.
func Encode(f Format, pcm []byte) []byte {
	if f.AudioFormat == 0 {
		f.AudioFormat = FormatPCM
	}
	out := make([]byte, canonicalHeaderSize, canonicalHeaderSize+len(pcm))
	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(canonicalHeaderSize-8+len(pcm)))
	copy(out[8:12], "WAVE")
	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16)
	binary.LittleEndian.PutUint16(out[20:22], f.AudioFormat)
	binary.LittleEndian.PutUint16(out[22:24], f.Channels)
	binary.LittleEndian.PutUint32(out[24:28], f.SampleRate)
	binary.LittleEndian.PutUint32(out[28:32], uint32(f.ByteRate()))
	binary.LittleEndian.PutUint16(out[32:34], uint16(f.BlockAlign()))
	binary.LittleEndian.PutUint16(out[34:36], f.BitsPerSample)
	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(len(pcm)))
	return append(out, pcm...)
}

// Silence returns frame-aligned zero samples (raw, no header) lasting seconds.
func Silence(f Format, seconds float64) []byte {
	return make([]byte, f.BytesFor(seconds))
}

// Duration returns the playback length of a container in seconds.
func Duration(buf []byte) (float64, error) {
	hdr, err := ParseHeader(buf)
	if err != nil {
		return 0, err
	}
	if !hdr.Valid() {
		return 0, fmt.Errorf("%w: invalid format %s", ErrMalformed, hdr.Format)
	}
	return hdr.Seconds(hdr.DataSize), nil
}
