package staging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/logging"
)

// CleanResult lists removed workspaces and any removal failures.
type CleanResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a directory path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// DirInfo describes one job workspace on disk.
type DirInfo struct {
	Name    string
	JobID   string
	Path    string
	ModTime time.Time
	Size    int64
}

// ListDirectories returns the job workspaces under workDir. A missing work
// dir yields no entries.
func ListDirectories(workDir string) ([]DirInfo, error) {
	workDir = strings.TrimSpace(workDir)
	if workDir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(workDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var dirs []DirInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		jobID, ok := JobID(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(workDir, entry.Name())
		size, _ := dirSize(path)
		dirs = append(dirs, DirInfo{Name: entry.Name(), JobID: jobID, Path: path, ModTime: info.ModTime(), Size: size})
	}
	return dirs, nil
}

// CleanStale removes job workspaces older than maxAge.
func CleanStale(ctx context.Context, workDir string, maxAge time.Duration, logger *slog.Logger) CleanResult {
	cutoff := time.Now().Add(-maxAge)
	return clean(ctx, workDir, logger, "stale", func(d DirInfo) bool {
		return d.ModTime.Before(cutoff)
	})
}

// CleanOrphaned removes job workspaces whose job ID is not in active.
func CleanOrphaned(ctx context.Context, workDir string, active map[string]struct{}, logger *slog.Logger) CleanResult {
	return clean(ctx, workDir, logger, "orphaned", func(d DirInfo) bool {
		_, ok := active[strings.ToLower(d.JobID)]
		return !ok
	})
}

func clean(ctx context.Context, workDir string, logger *slog.Logger, reason string, remove func(DirInfo) bool) CleanResult {
	var result CleanResult
	dirs, err := ListDirectories(workDir)
	if err != nil {
		result.Errors = append(result.Errors, CleanupError{Path: workDir, Error: err})
		return result
	}
	logger = logging.WithContext(ctx, logging.NewComponentLogger(logger, "staging"))
	for _, dir := range dirs {
		if !remove(dir) {
			continue
		}
		if err := os.RemoveAll(dir.Path); err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: dir.Path, Error: err})
			logging.WarnWithContext(logger, "failed to remove job workspace", "workspace_cleanup_failed",
				logging.String("path", dir.Path),
				logging.String("reason", reason),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check work_dir permissions"),
				logging.String(logging.FieldImpact, "disk space not reclaimed"),
			)
			continue
		}
		result.Removed = append(result.Removed, dir.Path)
		logger.Info("removed job workspace",
			logging.String("path", dir.Path),
			logging.String("reason", reason),
			logging.Duration("age", time.Since(dir.ModTime).Round(time.Second)),
			logging.String(logging.FieldEventType, "workspace_cleanup"),
		)
	}
	return result
}

func dirSize(path string) (int64, error) {
	var size int64
	err := filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size, err
}
