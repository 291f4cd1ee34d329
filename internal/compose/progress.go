package compose

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/logging"
)

// progressTracker consumes ffmpeg's -progress key=value stream.
type progressTracker struct {
	expected float64
	mode     Mode
	sampler  *logging.ProgressSampler
	logger   *slog.Logger
	percent  float64
}

func newProgressTracker(ctx context.Context, logger *slog.Logger, mode Mode, expected float64) *progressTracker {
	return &progressTracker{
		expected: expected,
		mode:     mode,
		sampler:  logging.NewProgressSampler(10, 5*time.Second),
		logger:   logging.WithContext(ctx, logger),
	}
}

// handle processes one line of progress output.
func (p *progressTracker) handle(line string) {
	if seconds, ok := ParseProgressSeconds(line); ok {
		if p.expected <= 0 {
			return
		}
		p.percent = min(seconds/p.expected*100, 100)
	} else if strings.TrimSpace(line) == "progress=end" {
		p.percent = 100
	} else {
		return
	}
	if p.sampler.ShouldLog(p.percent, string(p.mode)) {
		p.logger.Info("render progress",
			logging.String("mode", string(p.mode)),
			logging.Float64("percent", float64(int(p.percent*10))/10),
		)
	}
}

// ParseProgressSeconds extracts the encoded position from an out_time_ms or
// out_time_us line. Both keys carry microseconds.
func ParseProgressSeconds(line string) (float64, bool) {
	key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok || (key != "out_time_ms" && key != "out_time_us") {
		return 0, false
	}
	micros, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || micros < 0 {
		return 0, false
	}
	return float64(micros) / 1e6, true
}
