package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/services"
)

// Stage names used in errors, logs, and job history.
const (
	StageInput       = "input"
	StageSpeech      = "speech"
	StageAssembly    = "assembly"
	StageSubtitles   = "subtitles"
	StageFootage     = "footage"
	StageDownload    = "download"
	StageComposition = "composition"
	StagePublish     = "publish"
)

// StageError names the stage a job failed in.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// FailedStage returns the stage recorded on err, if any.
func FailedStage(err error) string {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Stage
	}
	return ""
}

// stageFailure tags err with its stage. An expired job deadline is
// reported as ErrPipelineTimeout regardless of how the stage surfaced it.
func stageFailure(ctx context.Context, stage string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, services.ErrPipelineTimeout) {
		err = services.Wrap(services.ErrPipelineTimeout, "pipeline", stage, "job deadline exceeded", err)
	}
	return &StageError{Stage: stage, Err: err}
}
