package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/config"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/jobs"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/logging"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/pipeline"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/script"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger

	// runnerOptions are appended when building a runner; tests use them to
	// stub external tools.
	runnerOptions []pipeline.Option
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

// requestedConfigPath is the --config value, or "" for the default location.
func (c *commandContext) requestedConfigPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, resolved, _, err := config.Load(c.requestedConfigPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) loggerValue() *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(c.config)
		if err != nil {
			logger = logging.NewNop()
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) openStore() (*jobs.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := jobs.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open job history: %w", err)
	}
	return store, nil
}

func (c *commandContext) newRunner(store *jobs.Store) (*pipeline.Runner, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	opts := []pipeline.Option{pipeline.WithLogger(c.loggerValue())}
	if store != nil {
		opts = append(opts, pipeline.WithStore(store))
	}
	opts = append(opts, c.runnerOptions...)
	return pipeline.New(cfg, opts...)
}

func loadJob(path string) (*script.JobFile, error) {
	expanded, err := config.ExpandPath(strings.TrimSpace(path))
	if err != nil {
		return nil, fmt.Errorf("resolve job file: %w", err)
	}
	return script.LoadJobFile(expanded)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
