package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WorkDir    string `toml:"work_dir"`
	OutputDir  string `toml:"output_dir"`
	LogDir     string `toml:"log_dir"`
	StateDir   string `toml:"state_dir"`
	StorageDir string `toml:"storage_dir"`
}

// Synthesis contains configuration for the text-to-speech backend.
type Synthesis struct {
	Backend        string `toml:"backend"`
	Binary         string `toml:"binary"`
	DefaultModel   string `toml:"default_model"`
	CloneModel     string `toml:"clone_model"`
	Language       string `toml:"language"`
	Speaker        string `toml:"speaker"`
	CUDA           string `toml:"cuda"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	SampleRate     int    `toml:"sample_rate"`
}

// Speech contains configuration for section-level synthesis orchestration.
type Speech struct {
	BatchSize            int     `toml:"batch_size"`
	PauseBetweenSections bool    `toml:"pause_between_sections"`
	PauseSeconds         float64 `toml:"pause_seconds"`
	PlaceholderSeconds   float64 `toml:"placeholder_seconds"`
}

// Footage contains configuration for stock-footage search and selection.
type Footage struct {
	APIKey             string   `toml:"api_key"`
	BaseURL            string   `toml:"base_url"`
	Orientation        string   `toml:"orientation"`
	Size               string   `toml:"size"`
	PerPage            int      `toml:"per_page"`
	MinClipSeconds     float64  `toml:"min_clip_seconds"`
	MaxClipSeconds     float64  `toml:"max_clip_seconds"`
	BufferFactor       float64  `toml:"buffer_factor"`
	KeywordsPerSection int      `toml:"keywords_per_section"`
	ClipsPerKeyword    int      `toml:"clips_per_keyword"`
	MinHeight          int      `toml:"min_height"`
	RelaxedMinHeight   int      `toml:"relaxed_min_height"`
	FallbackKeywords   []string `toml:"fallback_keywords"`
	RequestsPerMinute  int      `toml:"requests_per_minute"`
	RequestTimeout     int      `toml:"request_timeout"`
	DownloadTimeout    int      `toml:"download_timeout"`
	CacheTTLHours      int      `toml:"cache_ttl_hours"`
}

// Subtitles contains configuration for caption timing.
type Subtitles struct {
	MaxSentencesPerChunk  int     `toml:"max_sentences_per_chunk"`
	FallbackWordsPerChunk int     `toml:"fallback_words_per_chunk"`
	SectionPauseSeconds   float64 `toml:"section_pause_seconds"`
	PauseMode             string  `toml:"pause_mode"`
}

// Composition contains configuration for ffmpeg rendering.
type Composition struct {
	FFmpegBinary    string `toml:"ffmpeg_binary"`
	FFprobeBinary   string `toml:"ffprobe_binary"`
	Mode            string `toml:"mode"`
	Width           int    `toml:"width"`
	Height          int    `toml:"height"`
	FPS             int    `toml:"fps"`
	Quality         string `toml:"quality"`
	HardwareEncoder string `toml:"hardware_encoder"`
	BackgroundColor string `toml:"background_color"`
	FontColor       string `toml:"font_color"`
	FontSize        int    `toml:"font_size"`
	FontFile        string `toml:"font_file"`
	BurnSubtitles   bool   `toml:"burn_subtitles"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
}

// Pipeline contains job-level settings.
type Pipeline struct {
	TimeoutSeconds     int    `toml:"timeout_seconds"`
	LocalStoragePrefix string `toml:"local_storage_prefix"`
	FetchTimeout       int    `toml:"fetch_timeout"`
}

// Notifications configures ntfy delivery of render outcomes. An empty topic
// disables notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	OnSuccess      bool   `toml:"on_success"`
	OnFailure      bool   `toml:"on_failure"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for vidpipe.
//
// Configuration sections by subsystem:
//   - Paths: work, output, log, state, and local storage directories
//   - Synthesis: TTS backend, models, CUDA preference, per-call timeout
//   - Speech: batching, pauses, and placeholder silence
//   - Footage: stock API credentials, selection thresholds, rate limits
//   - Subtitles: chunking and inter-section pause
//   - Composition: ffmpeg binaries, output geometry, quality tier, styling
//   - Pipeline: job timeout and local storage addressing
//   - Notifications: ntfy topic and which render outcomes to announce
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Synthesis     Synthesis     `toml:"synthesis"`
	Speech        Speech        `toml:"speech"`
	Footage       Footage       `toml:"footage"`
	Subtitles     Subtitles     `toml:"subtitles"`
	Composition   Composition   `toml:"composition"`
	Pipeline      Pipeline      `toml:"pipeline"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("vidpipe.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the pipeline writes into.
// StorageDir is only read from, so it is created on a best-effort basis.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.OutputDir, c.Paths.LogDir, c.Paths.StateDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.StorageDir) != "" {
		_ = os.MkdirAll(c.Paths.StorageDir, 0o755)
	}
	return nil
}

// DatabasePath returns the sqlite file holding job history and the search cache.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.StateDir, "vidpipe.db")
}

// SynthesisTimeout returns the per-call synthesis deadline.
func (c *Config) SynthesisTimeout() time.Duration {
	return time.Duration(c.Synthesis.TimeoutSeconds) * time.Second
}

// NotifyTimeout returns the per-request deadline for ntfy deliveries.
func (c *Config) NotifyTimeout() time.Duration {
	return time.Duration(c.Notifications.RequestTimeout) * time.Second
}

// CompositionTimeout returns the deadline for a single ffmpeg render.
func (c *Config) CompositionTimeout() time.Duration {
	return time.Duration(c.Composition.TimeoutSeconds) * time.Second
}

// PipelineTimeout returns the wall-clock cap for an entire job.
func (c *Config) PipelineTimeout() time.Duration {
	return time.Duration(c.Pipeline.TimeoutSeconds) * time.Second
}

// FootageCacheTTL returns how long cached search responses stay valid. Zero disables the cache.
func (c *Config) FootageCacheTTL() time.Duration {
	return time.Duration(c.Footage.CacheTTLHours) * time.Hour
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultWorkDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "vidpipe", "work")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/vidpipe/work"
	}
	return filepath.Join(home, ".cache", "vidpipe", "work")
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
