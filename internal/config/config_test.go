package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("PEXELS_API_KEY", "env-key")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantWork := filepath.Join(tempHome, ".cache", "vidpipe", "work")
	if cfg.Paths.WorkDir != wantWork {
		t.Fatalf("unexpected work dir: got %q want %q", cfg.Paths.WorkDir, wantWork)
	}
	if cfg.Paths.LogDir != filepath.Join(tempHome, ".local", "share", "vidpipe", "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.DatabasePath() != filepath.Join(tempHome, ".local", "share", "vidpipe", "vidpipe.db") {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}
	if cfg.Footage.APIKey != "env-key" {
		t.Fatalf("expected footage key from env, got %q", cfg.Footage.APIKey)
	}
	if cfg.Footage.BufferFactor != 1.15 {
		t.Fatalf("unexpected buffer factor: %v", cfg.Footage.BufferFactor)
	}
	if cfg.Speech.BatchSize != 4 || !cfg.Speech.PauseBetweenSections {
		t.Fatalf("unexpected speech defaults: %+v", cfg.Speech)
	}
	if cfg.Speech.PlaceholderSeconds != 2.0 || cfg.Speech.PauseSeconds != 0.5 {
		t.Fatalf("unexpected silence defaults: %+v", cfg.Speech)
	}
	if cfg.SynthesisTimeout().Minutes() != 5 {
		t.Fatalf("expected 5 minute synthesis timeout, got %v", cfg.SynthesisTimeout())
	}
	if cfg.Composition.Mode != "overlay" || cfg.Composition.Quality != "medium" {
		t.Fatalf("unexpected composition defaults: %+v", cfg.Composition)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}

	for _, dir := range []string{cfg.Paths.WorkDir, cfg.Paths.OutputDir, cfg.Paths.LogDir, cfg.Paths.StateDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "vidpipe.toml")

	type payload struct {
		Synthesis struct {
			Backend string `toml:"backend"`
			CUDA    string `toml:"cuda"`
		} `toml:"synthesis"`
		Footage struct {
			APIKey           string   `toml:"api_key"`
			BaseURL          string   `toml:"base_url"`
			FallbackKeywords []string `toml:"fallback_keywords"`
		} `toml:"footage"`
		Composition struct {
			Mode    string `toml:"mode"`
			Quality string `toml:"quality"`
		} `toml:"composition"`
	}
	custom := payload{}
	custom.Synthesis.Backend = "ESPEAK"
	custom.Synthesis.CUDA = "false"
	custom.Footage.APIKey = "abc123"
	custom.Footage.BaseURL = "https://example.com/stock/"
	custom.Footage.FallbackKeywords = []string{" Ocean ", "ocean", "", "forest"}
	custom.Composition.Mode = "Footage"
	custom.Composition.Quality = "HIGH"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Synthesis.Backend != "espeak" || cfg.Synthesis.Binary != "espeak-ng" {
		t.Fatalf("unexpected synthesis backend: %+v", cfg.Synthesis)
	}
	if cfg.Synthesis.CUDA != "off" {
		t.Fatalf("expected cuda off, got %q", cfg.Synthesis.CUDA)
	}
	if cfg.Footage.BaseURL != "https://example.com/stock" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Footage.BaseURL)
	}
	if strings.Join(cfg.Footage.FallbackKeywords, ",") != "ocean,forest" {
		t.Fatalf("unexpected fallback keywords: %v", cfg.Footage.FallbackKeywords)
	}
	if cfg.Composition.Mode != "footage" || cfg.Composition.Quality != "high" {
		t.Fatalf("unexpected composition: %+v", cfg.Composition)
	}
}

func TestEnvVarFillsMissingFootageKey(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "vidpipe.toml")
	if err := os.WriteFile(configPath, []byte("[footage]\napi_key = \"file-key\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PEXELS_API_KEY", "env-key")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Footage.APIKey != "file-key" {
		t.Fatalf("expected file key to win, got %q", cfg.Footage.APIKey)
	}

	t.Setenv("VIDPIPE_FOOTAGE_API_KEY", "vidpipe-key")
	cfg, _, _, err = config.Load(filepath.Join(tempDir, "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Footage.APIKey != "vidpipe-key" {
		t.Fatalf("expected VIDPIPE_FOOTAGE_API_KEY to take precedence, got %q", cfg.Footage.APIKey)
	}
}

func TestEnvVarFillsNtfyTopic(t *testing.T) {
	t.Setenv("VIDPIPE_NTFY_TOPIC", "https://ntfy.example/vidpipe")
	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Notifications.NtfyTopic != "https://ntfy.example/vidpipe" {
		t.Fatalf("expected env topic, got %q", cfg.Notifications.NtfyTopic)
	}
	if cfg.NotifyTimeout().Seconds() != 10 {
		t.Fatalf("expected default notify timeout, got %s", cfg.NotifyTimeout())
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "your_pexels_api_key_here") {
		t.Fatalf("sample config missing placeholder footage key: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if !strings.Contains(cfg.Paths.LogDir, "vidpipe") {
		t.Fatalf("expected log dir to contain vidpipe, got %q", cfg.Paths.LogDir)
	}
	if cfg.Speech.BatchSize != 4 {
		t.Fatalf("expected sample batch size 4, got %d", cfg.Speech.BatchSize)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"batch size", func(c *config.Config) { c.Speech.BatchSize = 0 }},
		{"placeholder", func(c *config.Config) { c.Speech.PlaceholderSeconds = 0 }},
		{"backend", func(c *config.Config) { c.Synthesis.Backend = "festival" }},
		{"cuda", func(c *config.Config) { c.Synthesis.CUDA = "maybe" }},
		{"timeout", func(c *config.Config) { c.Synthesis.TimeoutSeconds = 0 }},
		{"footage key", func(c *config.Config) { c.Composition.Mode = "footage"; c.Footage.APIKey = "" }},
		{"clip band", func(c *config.Config) { c.Footage.MaxClipSeconds = 1 }},
		{"buffer factor", func(c *config.Config) { c.Footage.BufferFactor = 0.9 }},
		{"relaxed height", func(c *config.Config) { c.Footage.RelaxedMinHeight = 2000 }},
		{"mode", func(c *config.Config) { c.Composition.Mode = "slideshow" }},
		{"quality", func(c *config.Config) { c.Composition.Quality = "ultra" }},
		{"odd width", func(c *config.Config) { c.Composition.Width = 1279 }},
		{"pause mode", func(c *config.Config) { c.Subtitles.PauseMode = "sometimes" }},
		{"color", func(c *config.Config) { c.Composition.BackgroundColor = "red:blue" }},
		{"ntfy topic", func(c *config.Config) { c.Notifications.NtfyTopic = "my-topic" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error for %s", tt.name)
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}
