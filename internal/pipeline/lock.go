package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/services"
)

// outputLock guards a render path against concurrent writers.
type outputLock struct {
	path string
	lock *flock.Flock
}

func lockOutput(outputPath string) (*outputLock, error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "lock output", "create output dir", err)
	}
	lockPath := outputPath + ".lock"
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "pipeline", "lock output", lockPath, err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "lock output",
			fmt.Sprintf("%s is being rendered by another job", outputPath), nil)
	}
	return &outputLock{path: lockPath, lock: lock}, nil
}

func (l *outputLock) release() {
	if l == nil {
		return
	}
	_ = l.lock.Unlock()
	_ = os.Remove(l.path)
}
