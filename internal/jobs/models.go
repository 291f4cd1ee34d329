package jobs

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a render job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusTimedOut  Status = "timed_out"
	StatusRejected  Status = "rejected"
)

var allStatuses = []Status{
	StatusPending,
	StatusRunning,
	StatusCompleted,
	StatusFailed,
	StatusTimedOut,
	StatusRejected,
}

// AllStatuses returns every known status in lifecycle order.
func AllStatuses() []Status {
	return append([]Status(nil), allStatuses...)
}

// ParseStatus converts user input into a Status.
func ParseStatus(value string) (Status, error) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	for _, status := range allStatuses {
		if status == normalized {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown job status %q", value)
}

// IsTerminal reports whether no further transitions are expected.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusTimedOut, StatusRejected:
		return true
	}
	return false
}

// Job is one pipeline invocation recorded in history.
type Job struct {
	ID           uuid.UUID
	Status       Status
	Mode         string
	Title        string
	OutputPath   string
	SubtitlePath string
	AudioSeconds float64
	VideoSeconds float64
	Sections     int
	Placeholders int
	Clips        int
	ErrorKind    string
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ShortID returns the first eight characters of the job identifier.
func (j *Job) ShortID() string {
	if j == nil {
		return ""
	}
	id := j.ID.String()
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Elapsed reports how long the job ran, based on its recorded timestamps.
func (j *Job) Elapsed() time.Duration {
	if j == nil || j.CreatedAt.IsZero() || j.UpdatedAt.Before(j.CreatedAt) {
		return 0
	}
	return j.UpdatedAt.Sub(j.CreatedAt)
}
