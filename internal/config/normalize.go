package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSynthesis()
	c.normalizeFootage()
	c.normalizeSubtitles()
	if err := c.normalizeComposition(); err != nil {
		return err
	}
	c.normalizePipeline()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir()
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.StorageDir, err = expandPath(c.Paths.StorageDir); err != nil {
		return fmt.Errorf("paths.storage_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSynthesis() {
	c.Synthesis.Backend = strings.ToLower(strings.TrimSpace(c.Synthesis.Backend))
	if c.Synthesis.Backend == "" {
		c.Synthesis.Backend = defaultSynthesisBackend
	}
	c.Synthesis.Binary = strings.TrimSpace(c.Synthesis.Binary)
	if c.Synthesis.Binary == "" {
		switch c.Synthesis.Backend {
		case "espeak":
			c.Synthesis.Binary = "espeak-ng"
		default:
			c.Synthesis.Binary = defaultSynthesisBinary
		}
	}
	c.Synthesis.DefaultModel = strings.TrimSpace(c.Synthesis.DefaultModel)
	c.Synthesis.CloneModel = strings.TrimSpace(c.Synthesis.CloneModel)
	c.Synthesis.Language = strings.ToLower(strings.TrimSpace(c.Synthesis.Language))
	if c.Synthesis.Language == "" {
		c.Synthesis.Language = defaultSynthesisLanguage
	}
	c.Synthesis.Speaker = strings.TrimSpace(c.Synthesis.Speaker)
	c.Synthesis.CUDA = strings.ToLower(strings.TrimSpace(c.Synthesis.CUDA))
	switch c.Synthesis.CUDA {
	case "", "auto":
		c.Synthesis.CUDA = "auto"
	case "true", "yes", "on":
		c.Synthesis.CUDA = "on"
	case "false", "no", "off":
		c.Synthesis.CUDA = "off"
	}
	if c.Synthesis.SampleRate <= 0 {
		c.Synthesis.SampleRate = defaultSampleRate
	}
}

func (c *Config) normalizeFootage() {
	c.Footage.APIKey = strings.TrimSpace(c.Footage.APIKey)
	if c.Footage.APIKey == "" {
		if value, ok := os.LookupEnv("VIDPIPE_FOOTAGE_API_KEY"); ok {
			c.Footage.APIKey = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("PEXELS_API_KEY"); ok {
			c.Footage.APIKey = strings.TrimSpace(value)
		}
	}
	c.Footage.BaseURL = strings.TrimRight(strings.TrimSpace(c.Footage.BaseURL), "/")
	if c.Footage.BaseURL == "" {
		c.Footage.BaseURL = defaultFootageBaseURL
	}
	c.Footage.Orientation = strings.ToLower(strings.TrimSpace(c.Footage.Orientation))
	c.Footage.Size = strings.ToLower(strings.TrimSpace(c.Footage.Size))
	if len(c.Footage.FallbackKeywords) == 0 {
		c.Footage.FallbackKeywords = append([]string(nil), defaultFallbackKeywords...)
	} else {
		keywords := make([]string, 0, len(c.Footage.FallbackKeywords))
		seen := make(map[string]struct{}, len(c.Footage.FallbackKeywords))
		for _, keyword := range c.Footage.FallbackKeywords {
			normalized := strings.ToLower(strings.TrimSpace(keyword))
			if normalized == "" {
				continue
			}
			if _, exists := seen[normalized]; exists {
				continue
			}
			seen[normalized] = struct{}{}
			keywords = append(keywords, normalized)
		}
		if len(keywords) == 0 {
			keywords = append(keywords, defaultFallbackKeywords...)
		}
		c.Footage.FallbackKeywords = keywords
	}
	if c.Footage.CacheTTLHours < 0 {
		c.Footage.CacheTTLHours = 0
	}
}

func (c *Config) normalizeSubtitles() {
	c.Subtitles.PauseMode = strings.ToLower(strings.TrimSpace(c.Subtitles.PauseMode))
	if c.Subtitles.PauseMode == "" {
		c.Subtitles.PauseMode = defaultPauseMode
	}
}

func (c *Config) normalizeComposition() error {
	c.Composition.FFmpegBinary = strings.TrimSpace(c.Composition.FFmpegBinary)
	if c.Composition.FFmpegBinary == "" {
		c.Composition.FFmpegBinary = defaultFFmpegBinary
	}
	c.Composition.FFprobeBinary = strings.TrimSpace(c.Composition.FFprobeBinary)
	if c.Composition.FFprobeBinary == "" {
		c.Composition.FFprobeBinary = defaultFFprobeBinary
	}
	c.Composition.Mode = strings.ToLower(strings.TrimSpace(c.Composition.Mode))
	if c.Composition.Mode == "" {
		c.Composition.Mode = defaultCompositionMode
	}
	c.Composition.Quality = strings.ToLower(strings.TrimSpace(c.Composition.Quality))
	if c.Composition.Quality == "" {
		c.Composition.Quality = defaultQuality
	}
	c.Composition.HardwareEncoder = strings.ToLower(strings.TrimSpace(c.Composition.HardwareEncoder))
	if c.Composition.HardwareEncoder == "" {
		c.Composition.HardwareEncoder = defaultHardwareEncoder
	}
	c.Composition.BackgroundColor = strings.TrimSpace(c.Composition.BackgroundColor)
	if c.Composition.BackgroundColor == "" {
		c.Composition.BackgroundColor = defaultBackgroundColor
	}
	c.Composition.FontColor = strings.TrimSpace(c.Composition.FontColor)
	if c.Composition.FontColor == "" {
		c.Composition.FontColor = defaultFontColor
	}
	if strings.TrimSpace(c.Composition.FontFile) != "" {
		var err error
		if c.Composition.FontFile, err = expandPath(c.Composition.FontFile); err != nil {
			return fmt.Errorf("composition.font_file: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizePipeline() {
	c.Pipeline.LocalStoragePrefix = strings.TrimSpace(c.Pipeline.LocalStoragePrefix)
	if c.Pipeline.LocalStoragePrefix == "" {
		c.Pipeline.LocalStoragePrefix = defaultLocalStoragePrefix
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if value, ok := os.LookupEnv("VIDPIPE_NTFY_TOPIC"); ok && c.Notifications.NtfyTopic == "" {
		c.Notifications.NtfyTopic = strings.TrimSpace(value)
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
