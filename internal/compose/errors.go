package compose

import (
	"fmt"
	"strings"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/services"
)

// CompositionError reports a failed ffmpeg render with its diagnostic tail.
type CompositionError struct {
	Mode     Mode
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CompositionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s composition failed", e.Mode)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	} else {
		fmt.Fprintf(&b, " (exit %d)", e.ExitCode)
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		fmt.Fprintf(&b, ": %s", stderr)
	}
	return b.String()
}

// Unwrap exposes the composition marker and any underlying cause.
func (e *CompositionError) Unwrap() []error {
	if e.Err == nil {
		return []error{services.ErrComposition}
	}
	return []error{services.ErrComposition, e.Err}
}
