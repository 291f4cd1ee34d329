package logging

import (
	"strings"
	"time"
)

// ProgressSampler thins out progress logs from long-running tools. A sample
// is emitted when the stage changes, when the percent enters a new bucket and
// the minimum interval has passed, or when the work completes.
type ProgressSampler struct {
	bucketSize  float64
	minInterval time.Duration
	now         func() time.Time

	lastStage  string
	lastBucket int
	lastEmit   time.Time
}

// NewProgressSampler constructs a sampler with the given bucket width in
// percent (default 5) and minimum spacing between bucket emissions.
func NewProgressSampler(bucketSize float64, minInterval time.Duration) *ProgressSampler {
	if bucketSize <= 0 {
		bucketSize = 5
	}
	if minInterval < 0 {
		minInterval = 0
	}
	return &ProgressSampler{bucketSize: bucketSize, minInterval: minInterval, now: time.Now, lastBucket: -1}
}

// ShouldLog reports whether a progress event should be logged. Percent can be
// negative to indicate "unknown"; stage is trimmed before comparison.
func (s *ProgressSampler) ShouldLog(percent float64, stage string) bool {
	if s == nil {
		return true
	}
	now := s.now()
	stage = strings.TrimSpace(stage)
	if stage != "" && stage != s.lastStage {
		s.lastStage = stage
		s.lastBucket = bucketFor(percent, s.bucketSize)
		s.lastEmit = now
		return true
	}
	if percent < 0 {
		return false
	}
	bucket := bucketFor(percent, s.bucketSize)
	if bucket <= s.lastBucket {
		return false
	}
	final := percent >= 100
	if !final && s.minInterval > 0 && !s.lastEmit.IsZero() && now.Sub(s.lastEmit) < s.minInterval {
		return false
	}
	s.lastBucket = bucket
	s.lastEmit = now
	return true
}

// Reset clears the sampler state (e.g. when a new render starts).
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastStage = ""
	s.lastBucket = -1
	s.lastEmit = time.Time{}
}

func bucketFor(percent, size float64) int {
	if percent < 0 {
		return -1
	}
	if percent >= 100 {
		return int(100 / size)
	}
	return int(percent / size)
}
