package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSynthesis(); err != nil {
		return err
	}
	if err := c.validateSpeech(); err != nil {
		return err
	}
	if err := c.validateFootage(); err != nil {
		return err
	}
	if err := c.validateSubtitles(); err != nil {
		return err
	}
	if err := c.validateComposition(); err != nil {
		return err
	}
	if topic := c.Notifications.NtfyTopic; topic != "" &&
		!strings.HasPrefix(topic, "http://") && !strings.HasPrefix(topic, "https://") {
		return fmt.Errorf("notifications.ntfy_topic must be an http(s) URL, got %q", topic)
	}
	if err := ensurePositiveMap(map[string]int{
		"synthesis.timeout_seconds":   c.Synthesis.TimeoutSeconds,
		"composition.timeout_seconds": c.Composition.TimeoutSeconds,
		"pipeline.timeout_seconds":    c.Pipeline.TimeoutSeconds,
		"pipeline.fetch_timeout":      c.Pipeline.FetchTimeout,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSynthesis() error {
	switch c.Synthesis.Backend {
	case "coqui", "espeak":
	default:
		return fmt.Errorf("synthesis.backend: unsupported value %q (use coqui or espeak)", c.Synthesis.Backend)
	}
	if c.Synthesis.Backend == "coqui" && c.Synthesis.DefaultModel == "" {
		return errors.New("synthesis.default_model must be set for the coqui backend")
	}
	switch c.Synthesis.CUDA {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("synthesis.cuda: unsupported value %q (use auto, on, or off)", c.Synthesis.CUDA)
	}
	return nil
}

func (c *Config) validateSpeech() error {
	if c.Speech.BatchSize <= 0 {
		return errors.New("speech.batch_size must be positive")
	}
	if c.Speech.PauseSeconds < 0 {
		return errors.New("speech.pause_seconds must be >= 0")
	}
	if c.Speech.PlaceholderSeconds <= 0 {
		return errors.New("speech.placeholder_seconds must be positive")
	}
	return nil
}

func (c *Config) validateFootage() error {
	if c.Composition.Mode == "footage" && c.Footage.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("footage.api_key is required in footage mode. Set PEXELS_API_KEY env var or edit %s (create with 'vidpipe config init')", defaultPath)
	}
	if c.Footage.MinClipSeconds <= 0 {
		return errors.New("footage.min_clip_seconds must be positive")
	}
	if c.Footage.MaxClipSeconds < c.Footage.MinClipSeconds {
		return errors.New("footage.max_clip_seconds must be >= footage.min_clip_seconds")
	}
	if c.Footage.BufferFactor < 1 {
		return errors.New("footage.buffer_factor must be >= 1")
	}
	if c.Footage.RelaxedMinHeight > c.Footage.MinHeight {
		return errors.New("footage.relaxed_min_height must be <= footage.min_height")
	}
	return ensurePositiveMap(map[string]int{
		"footage.per_page":             c.Footage.PerPage,
		"footage.keywords_per_section": c.Footage.KeywordsPerSection,
		"footage.clips_per_keyword":    c.Footage.ClipsPerKeyword,
		"footage.requests_per_minute":  c.Footage.RequestsPerMinute,
		"footage.request_timeout":      c.Footage.RequestTimeout,
		"footage.download_timeout":     c.Footage.DownloadTimeout,
	})
}

func (c *Config) validateSubtitles() error {
	if c.Subtitles.MaxSentencesPerChunk <= 0 {
		return errors.New("subtitles.max_sentences_per_chunk must be positive")
	}
	if c.Subtitles.FallbackWordsPerChunk <= 0 {
		return errors.New("subtitles.fallback_words_per_chunk must be positive")
	}
	if c.Subtitles.SectionPauseSeconds < 0 {
		return errors.New("subtitles.section_pause_seconds must be >= 0")
	}
	switch c.Subtitles.PauseMode {
	case "inclusive", "additive":
	default:
		return fmt.Errorf("subtitles.pause_mode: unsupported value %q (use inclusive or additive)", c.Subtitles.PauseMode)
	}
	return nil
}

func (c *Config) validateComposition() error {
	switch c.Composition.Mode {
	case "overlay", "footage":
	default:
		return fmt.Errorf("composition.mode: unsupported value %q (use overlay or footage)", c.Composition.Mode)
	}
	switch c.Composition.Quality {
	case "low", "medium", "high":
	default:
		return fmt.Errorf("composition.quality: unsupported value %q (use low, medium, or high)", c.Composition.Quality)
	}
	switch c.Composition.HardwareEncoder {
	case "auto", "off":
	default:
		return fmt.Errorf("composition.hardware_encoder: unsupported value %q (use auto or off)", c.Composition.HardwareEncoder)
	}
	if err := ensurePositiveMap(map[string]int{
		"composition.width":     c.Composition.Width,
		"composition.height":    c.Composition.Height,
		"composition.fps":       c.Composition.FPS,
		"composition.font_size": c.Composition.FontSize,
	}); err != nil {
		return err
	}
	if c.Composition.Width%2 != 0 || c.Composition.Height%2 != 0 {
		return errors.New("composition.width and composition.height must be even for yuv420p output")
	}
	if strings.ContainsAny(c.Composition.BackgroundColor, " :'") {
		return fmt.Errorf("composition.background_color: invalid color %q", c.Composition.BackgroundColor)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
