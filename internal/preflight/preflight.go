package preflight

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the checks that apply to a render in mode. The footage
// API is only contacted for footage renders.
func RunAll(ctx context.Context, cfg *config.Config, mode string) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir),
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
	}

	// Storage is optional and read-only; only check it once it exists.
	if dir := strings.TrimSpace(cfg.Paths.StorageDir); dir != "" {
		if _, err := os.Stat(dir); err == nil {
			results = append(results, CheckDirectoryAccess("Storage directory", dir))
		}
	}

	for _, status := range CheckSystemDeps(ctx, cfg) {
		if status.Optional && !status.Available {
			continue
		}
		detail := status.Command
		if !status.Available {
			detail = fmt.Sprintf("%s (%s)", status.Command, status.Detail)
		}
		results = append(results, Result{Name: status.Name, Passed: status.Available, Detail: detail})
	}

	if strings.EqualFold(strings.TrimSpace(mode), "footage") {
		results = append(results, CheckFootageAPI(ctx, cfg.Footage.BaseURL, cfg.Footage.APIKey, nil))
	}
	return results
}

// Failed returns the checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
