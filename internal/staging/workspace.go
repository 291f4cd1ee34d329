// Package staging manages per-job scratch directories under the work dir.
//
// Every pipeline run gets its own job-<id> directory for intermediate audio,
// downloaded clips, and the render before it is published. The directory is
// removed when the run ends; CleanStale and CleanOrphaned sweep up after
// runs that were killed before they could clean up.
package staging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DirPrefix marks directories owned by this package.
const DirPrefix = "job-"

// Workspace is a job-scoped scratch directory.
type Workspace struct {
	Root string
}

// Create makes a fresh workspace for jobID under workDir.
func Create(workDir, jobID string) (*Workspace, error) {
	workDir = strings.TrimSpace(workDir)
	jobID = strings.TrimSpace(jobID)
	if workDir == "" || jobID == "" {
		return nil, fmt.Errorf("staging: work dir and job id are required")
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("staging: create work dir: %w", err)
	}
	root := filepath.Join(workDir, DirPrefix+jobID)
	if err := os.Mkdir(root, 0o755); err != nil {
		return nil, fmt.Errorf("staging: create workspace: %w", err)
	}
	return &Workspace{Root: root}, nil
}

// Path joins elements onto the workspace root.
func (w *Workspace) Path(elem ...string) string {
	return filepath.Join(append([]string{w.Root}, elem...)...)
}

// Dir returns a subdirectory of the workspace, creating it if needed.
func (w *Workspace) Dir(name string) (string, error) {
	dir := w.Path(name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("staging: create %s: %w", name, err)
	}
	return dir, nil
}

// Remove deletes the workspace and everything in it.
func (w *Workspace) Remove() error {
	if w == nil || w.Root == "" {
		return nil
	}
	return os.RemoveAll(w.Root)
}

// JobID extracts the job identifier from a workspace directory name.
func JobID(name string) (string, bool) {
	if !strings.HasPrefix(name, DirPrefix) || len(name) == len(DirPrefix) {
		return "", false
	}
	return strings.TrimPrefix(name, DirPrefix), true
}
