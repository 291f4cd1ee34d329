package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/jobs"
)

var (
	ErrSynthesis        = errors.New("synthesis error")
	ErrSynthesisTimeout = errors.New("synthesis timeout")
	ErrAssembly         = errors.New("assembly error")
	ErrDownload         = errors.New("download error")
	ErrComposition      = errors.New("composition error")
	ErrPipelineTimeout  = errors.New("pipeline timeout")

	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTimeout       = errors.New("timeout")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// FailureStatus maps a pipeline error to the job status persisted in history.
func FailureStatus(err error) jobs.Status {
	switch {
	case errors.Is(err, ErrPipelineTimeout):
		return jobs.StatusTimedOut
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConfiguration), errors.Is(err, ErrNotFound):
		return jobs.StatusRejected
	default:
		return jobs.StatusFailed
	}
}

// Kind returns a short classification label for err, used in logs and job history.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPipelineTimeout):
		return "pipeline_timeout"
	case errors.Is(err, ErrSynthesisTimeout):
		return "synthesis_timeout"
	case errors.Is(err, ErrSynthesis):
		return "synthesis"
	case errors.Is(err, ErrAssembly):
		return "assembly"
	case errors.Is(err, ErrDownload):
		return "download"
	case errors.Is(err, ErrComposition):
		return "composition"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	default:
		return "external_tool"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
