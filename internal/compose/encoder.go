package compose

import (
	"context"
	"strings"
	"time"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/cmdexec"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/logging"
)

const encoderProbeTimeout = 30 * time.Second

// HardwareAvailable reports whether h264_nvenc is compiled into ffmpeg and
// can encode a test frame. The probe runs once per Compositor; a disabled
// preference skips it entirely.
func (c *Compositor) HardwareAvailable(ctx context.Context) bool {
	if c.hardwarePref == "off" {
		return false
	}
	c.probeOnce.Do(func() {
		c.nvenc = c.probeNVENC(ctx)
	})
	return c.nvenc
}

func (c *Compositor) probeNVENC(ctx context.Context) bool {
	logger := logging.WithContext(ctx, c.logger)
	list, err := c.exec.Run(ctx, cmdexec.Command{
		Binary:  c.ffmpeg,
		Args:    []string{"-hide_banner", "-encoders"},
		Timeout: encoderProbeTimeout,
	})
	if err != nil || !list.Success() || !strings.Contains(string(list.Stdout), "h264_nvenc") {
		logger.Debug("hardware encoder not listed", logging.Error(err))
		return false
	}
	test, err := c.exec.Run(ctx, cmdexec.Command{
		Binary: c.ffmpeg,
		Args: []string{
			"-hide_banner", "-v", "error",
			"-f", "lavfi", "-i", "color=black:s=256x256:d=0.1:r=1",
			"-frames:v", "1", "-an",
			"-c:v", "h264_nvenc", "-f", "null", "-",
		},
		Timeout: encoderProbeTimeout,
	})
	if err != nil || !test.Success() {
		logging.WarnWithContext(logger, "hardware encoder present but unusable", "nvenc_probe_failed",
			logging.Int("exit_code", test.ExitCode),
			logging.String("stderr", test.StderrTail(3)),
			logging.String(logging.FieldImpact, "rendering uses libx264"),
			logging.String(logging.FieldErrorHint, "check the NVIDIA driver or set composition.hardware_encoder = \"off\""),
		)
		return false
	}
	logger.Info("hardware encoder available", logging.String("encoder", "h264_nvenc"))
	return true
}
