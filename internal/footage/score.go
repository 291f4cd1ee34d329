package footage

import (
	"math"
	"strings"
)

// Scoring weights; each component is normalized to [0,1].
const (
	durationWeight   = 0.4
	resolutionWeight = 0.4
	fpsWeight        = 0.2

	idealMinSeconds = 10.0
	idealMaxSeconds = 30.0
)

// ScoreFile rates one rendition of a clip of the given duration. Higher is
// better; the result lies in [0,1].
func ScoreFile(file VideoFile, clipDuration float64) float64 {
	return durationWeight*durationScore(clipDuration) +
		resolutionWeight*resolutionScore(file) +
		fpsWeight*fpsScore(file.FPS)
}

func durationScore(seconds float64) float64 {
	switch {
	case seconds <= 0:
		return 0
	case seconds < idealMinSeconds:
		return seconds / idealMinSeconds
	case seconds <= idealMaxSeconds:
		return 1
	default:
		return math.Max(0, 1-(seconds-idealMaxSeconds)/idealMaxSeconds)
	}
}

func resolutionScore(file VideoFile) float64 {
	switch side := shortSide(file); {
	case side >= 1080:
		return 1
	case side >= 720:
		return 0.7
	case side > 0:
		return 0.3
	default:
		return 0
	}
}

func fpsScore(fps float64) float64 {
	switch {
	case fps <= 0:
		return 0.6
	case fps >= 23.9 && fps <= 30.01:
		return 1
	case math.Abs(fps-50) < 0.1 || math.Abs(fps-60) < 0.1 || math.Abs(fps-59.94) < 0.1:
		return 0.9
	default:
		return 0.4
	}
}

func shortSide(file VideoFile) int {
	if file.Width <= 0 {
		return file.Height
	}
	if file.Height <= 0 {
		return file.Width
	}
	return min(file.Width, file.Height)
}

// BestFile picks the highest-scoring MP4 rendition whose short side is at
// least minHeight. Ties go to the smaller file, then the lower ID.
func BestFile(video Video, minHeight int) (VideoFile, bool) {
	var (
		best      VideoFile
		bestScore = -1.0
	)
	for _, file := range video.Files {
		if !isMP4(file) || strings.TrimSpace(file.Link) == "" {
			continue
		}
		if shortSide(file) < minHeight {
			continue
		}
		score := ScoreFile(file, video.Duration)
		switch {
		case score > bestScore+1e-9:
		case math.Abs(score-bestScore) <= 1e-9 && (shortSide(file) < shortSide(best) ||
			(shortSide(file) == shortSide(best) && file.ID < best.ID)):
		default:
			continue
		}
		best, bestScore = file, score
	}
	return best, bestScore >= 0
}

func isMP4(file VideoFile) bool {
	fileType := strings.ToLower(strings.TrimSpace(file.FileType))
	if fileType != "" {
		return strings.Contains(fileType, "mp4")
	}
	return strings.HasSuffix(strings.ToLower(strings.SplitN(file.Link, "?", 2)[0]), ".mp4")
}
