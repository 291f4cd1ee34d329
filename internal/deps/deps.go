package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/cmdexec"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/config"
)

// Requirement defines an external binary vidpipe relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	// VersionArgs, when set, are run to capture a version line.
	VersionArgs []string
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Version     string
	Detail      string
}

// Requirements lists the binaries the configured pipeline needs.
func Requirements(cfg *config.Config) []Requirement {
	synthesis := Requirement{
		Name:        "Coqui TTS",
		Command:     cfg.Synthesis.Binary,
		Description: "Speech synthesis",
	}
	if strings.EqualFold(cfg.Synthesis.Backend, "espeak") {
		synthesis.Name = "eSpeak NG"
		synthesis.VersionArgs = []string{"--version"}
	}
	ffprobe := FFprobeSidecar(cfg.Composition.FFmpegBinary, cfg.Composition.FFprobeBinary)
	return []Requirement{
		synthesis,
		{
			Name:        "FFmpeg",
			Command:     cfg.Composition.FFmpegBinary,
			Description: "Video composition",
			VersionArgs: []string{"-hide_banner", "-version"},
		},
		{
			Name:        "FFprobe",
			Command:     ffprobe,
			Description: "Clip and render duration probing",
			Optional:    true,
			VersionArgs: []string{"-hide_banner", "-version"},
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		switch {
		case cmd == "":
			status.Detail = "command not configured"
		default:
			if _, err := exec.LookPath(cmd); err != nil {
				status.Detail = fmt.Sprintf("binary %q not found", cmd)
			} else {
				status.Available = true
			}
		}
		results = append(results, status)
	}
	return results
}

// Check resolves requirements and captures the first version line of each
// available binary that has VersionArgs.
func Check(ctx context.Context, requirements []Requirement, runner cmdexec.Executor) []Status {
	if runner == nil {
		runner = cmdexec.Default()
	}
	statuses := CheckBinaries(requirements)
	for i, req := range requirements {
		if !statuses[i].Available || len(req.VersionArgs) == 0 {
			continue
		}
		res, err := runner.Run(ctx, cmdexec.Command{
			Binary:  statuses[i].Command,
			Args:    req.VersionArgs,
			Timeout: 10 * time.Second,
		})
		if err != nil || !res.Success() {
			statuses[i].Detail = "version check failed"
			continue
		}
		statuses[i].Version = firstLine(string(res.Stdout))
	}
	return statuses
}

// MissingRequired returns the required dependencies that are unavailable.
func MissingRequired(statuses []Status) []Status {
	var missing []Status
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			missing = append(missing, s)
		}
	}
	return missing
}

func firstLine(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}
