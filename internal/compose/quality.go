package compose

import (
	"fmt"
	"strconv"
	"strings"
)

// Quality is a coarse encoder tier.
type Quality string

const (
	QualityLow    Quality = "low"
	QualityMedium Quality = "medium"
	QualityHigh   Quality = "high"
)

// ParseQuality normalizes a tier name, defaulting to medium when empty.
func ParseQuality(value string) (Quality, error) {
	switch q := Quality(strings.ToLower(strings.TrimSpace(value))); q {
	case "":
		return QualityMedium, nil
	case QualityLow, QualityMedium, QualityHigh:
		return q, nil
	default:
		return "", fmt.Errorf("unsupported quality %q (use low, medium, or high)", value)
	}
}

// EncoderSettings are the concrete video encoder parameters for a tier.
type EncoderSettings struct {
	Codec    string
	Preset   string
	Quality  int
	Hardware bool
}

type tierSettings struct {
	x264Preset  string
	crf         int
	nvencPreset string
	cq          int
}

var tiers = map[Quality]tierSettings{
	QualityLow:    {x264Preset: "veryfast", crf: 28, nvencPreset: "p1", cq: 28},
	QualityMedium: {x264Preset: "medium", crf: 23, nvencPreset: "p4", cq: 23},
	QualityHigh:   {x264Preset: "slow", crf: 18, nvencPreset: "p7", cq: 19},
}

// SettingsFor maps a tier onto libx264, or h264_nvenc when hardware is true.
func SettingsFor(q Quality, hardware bool) EncoderSettings {
	tier, ok := tiers[q]
	if !ok {
		tier = tiers[QualityMedium]
	}
	if hardware {
		return EncoderSettings{Codec: "h264_nvenc", Preset: tier.nvencPreset, Quality: tier.cq, Hardware: true}
	}
	return EncoderSettings{Codec: "libx264", Preset: tier.x264Preset, Quality: tier.crf}
}

// Args returns the ffmpeg video codec arguments.
func (s EncoderSettings) Args() []string {
	if s.Hardware {
		return []string{"-c:v", s.Codec, "-preset", s.Preset, "-rc", "vbr", "-cq", strconv.Itoa(s.Quality), "-b:v", "0"}
	}
	return []string{"-c:v", s.Codec, "-preset", s.Preset, "-crf", strconv.Itoa(s.Quality)}
}
