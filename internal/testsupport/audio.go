package testsupport

import (
	"testing"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/media/wav"
)

// PCMFormat is the mono 16-bit format used by audio fixtures.
var PCMFormat = wav.Format{
	AudioFormat:   wav.FormatPCM,
	Channels:      1,
	SampleRate:    8000,
	BitsPerSample: 16,
}

// WAV returns a container of the given duration filled with a repeating
// non-zero sample pattern so payload boundaries are visible in assertions.
func WAV(t testing.TB, seconds float64) []byte {
	t.Helper()

	return wav.Encode(PCMFormat, PCM(t, seconds, 0x11))
}

// PCM returns raw samples in PCMFormat where every byte equals fill.
func PCM(t testing.TB, seconds float64, fill byte) []byte {
	t.Helper()

	if seconds < 0 {
		t.Fatalf("negative fixture duration %v", seconds)
	}
	size := PCMFormat.BytesFor(seconds)
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = fill
	}
	return buf
}
