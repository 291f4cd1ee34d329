package script

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/services"
)

// Voice carries per-job synthesis preferences.
type Voice struct {
	Reference string `yaml:"reference"`
	Language  string `yaml:"language"`
	Speaker   string `yaml:"speaker"`
}

// JobFile is the on-disk description of one render. Unset fields fall back
// to configuration defaults. YAML and JSON are both accepted.
type JobFile struct {
	Title          string    `yaml:"title"`
	Mode           string    `yaml:"mode"`
	Output         string    `yaml:"output"`
	TargetDuration float64   `yaml:"target_duration"`
	AudioURL       string    `yaml:"audio_url"`
	OverlayText    string    `yaml:"overlay_text"`
	Quality        string    `yaml:"quality"`
	Width          int       `yaml:"width"`
	Height         int       `yaml:"height"`
	FPS            int       `yaml:"fps"`
	Background     string    `yaml:"background_color"`
	FontColor      string    `yaml:"font_color"`
	FontSize       int       `yaml:"font_size"`
	FontFile       string    `yaml:"font_file"`
	BurnSubtitles  *bool     `yaml:"burn_subtitles"`
	Voice          Voice     `yaml:"voice"`
	Sections       []Section `yaml:"-"`
}

type rawSection struct {
	Title           string `yaml:"title"`
	Content         string `yaml:"content"`
	OrderIndex      any    `yaml:"orderIndex"`
	OrderIndexSnake any    `yaml:"order_index"`
}

type rawJobFile struct {
	JobFile  `yaml:",inline"`
	Sections []rawSection `yaml:"sections"`
}

// LoadJobFile reads and parses a job file from disk.
func LoadJobFile(path string) (*JobFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "script", "read job file", path, err)
	}
	job, err := ParseJobFile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return job, nil
}

// ParseJobFile decodes a job description. Sections missing an orderIndex take
// their position in the file; numeric strings are accepted.
func ParseJobFile(data []byte) (*JobFile, error) {
	var raw rawJobFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, services.Wrap(services.ErrValidation, "script", "decode job file", "", err)
	}
	job := raw.JobFile
	job.Mode = strings.ToLower(strings.TrimSpace(job.Mode))
	job.Sections = make([]Section, 0, len(raw.Sections))
	for i, rs := range raw.Sections {
		index := i
		value := rs.OrderIndex
		if value == nil {
			value = rs.OrderIndexSnake
		}
		if value != nil {
			parsed, err := cast.ToIntE(value)
			if err != nil {
				return nil, services.Wrap(services.ErrValidation, "script", "decode job file",
					fmt.Sprintf("section %d orderIndex %v", i+1, value), err)
			}
			index = parsed
		}
		job.Sections = append(job.Sections, Section{
			Title:      strings.TrimSpace(rs.Title),
			Content:    rs.Content,
			OrderIndex: index,
		})
	}
	if err := Validate(job.Sections); err != nil {
		return nil, err
	}
	job.Sections = Sorted(job.Sections)
	if job.TargetDuration < 0 {
		return nil, services.Wrap(services.ErrValidation, "script", "decode job file", "target_duration must not be negative", nil)
	}
	if job.Title == "" {
		job.Title = job.Sections[0].Title
	}
	return &job, nil
}
