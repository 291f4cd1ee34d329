package tts

import (
	"bufio"
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/cmdexec"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/logging"
)

const probeTimeout = 60 * time.Second

// modelLinePattern matches `tts --list_models` entries such as
// " 12: tts_models/en/ljspeech/vits [already downloaded]".
var modelLinePattern = regexp.MustCompile(`^\s*\d+:\s*(tts_models/\S+)`)

// Probe returns the engine capability snapshot, running the underlying
// checks only on the first call. Probe failures degrade to a conservative
// snapshot instead of erroring.
func (c *Client) Probe(ctx context.Context) EngineCapabilities {
	c.probeOnce.Do(func() {
		c.probed = c.runProbe(ctx)
	})
	return c.probed
}

func (c *Client) runProbe(ctx context.Context) EngineCapabilities {
	caps := EngineCapabilities{Backend: c.backend, Probed: true}
	if c.backend == BackendEspeak {
		caps.MultiLingual = true
		c.logger.Debug("synthesis capabilities probed", logging.String("backend", c.backend))
		return caps
	}

	caps.CUDA = c.detectCUDA(ctx)
	caps.Models = c.listModels(ctx)
	for _, model := range caps.Models {
		if isCloningModel(model) {
			caps.VoiceCloning = true
		}
		if isMultilingualModel(model) {
			caps.MultiLingual = true
		}
	}
	c.logger.Info(
		"synthesis capabilities probed",
		logging.String("backend", c.backend),
		logging.Bool("cuda", caps.CUDA),
		logging.Int("models", len(caps.Models)),
		logging.Bool("voice_cloning", caps.VoiceCloning),
		logging.Bool("multilingual", caps.MultiLingual),
	)
	return caps
}

func (c *Client) detectCUDA(ctx context.Context) bool {
	switch c.cudaMode {
	case "off":
		return false
	case "on":
		return true
	}
	res, err := c.exec.Run(ctx, cmdexec.Command{Binary: "nvidia-smi", Args: []string{"-L"}, Timeout: 10 * time.Second})
	if err != nil || !res.Success() {
		c.logger.Debug("cuda not detected", logging.Error(err))
		return false
	}
	return strings.Contains(string(res.Stdout), "GPU")
}

func (c *Client) listModels(ctx context.Context) []string {
	res, err := c.exec.Run(ctx, cmdexec.Command{Binary: c.binary, Args: []string{"--list_models"}, Timeout: probeTimeout})
	if err != nil || !res.Success() {
		logging.WarnWithContext(c.logger, "model listing failed; using configured default model", "synthesis_probe_failed",
			logging.Error(err),
			logging.Int("exit_code", res.ExitCode),
			logging.String(logging.FieldErrorHint, "verify the tts binary runs and can reach its model index"),
			logging.String(logging.FieldImpact, "voice cloning disabled for this run"),
		)
		return nil
	}
	return parseModelList(string(res.Stdout))
}

func parseModelList(output string) []string {
	var models []string
	seen := make(map[string]struct{})
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		match := modelLinePattern.FindStringSubmatch(scanner.Text())
		if match == nil {
			continue
		}
		if _, ok := seen[match[1]]; ok {
			continue
		}
		seen[match[1]] = struct{}{}
		models = append(models, match[1])
	}
	return models
}
