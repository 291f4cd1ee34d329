package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/config"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/preflight"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Create, inspect, and check the configuration",
	}
	configCmd.AddCommand(newConfigInitCommand(), newConfigValidateCommand(ctx), newConfigShowCommand(ctx))
	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var (
		targetPath string
		overwrite  bool
	)
	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write the sample configuration",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := configTarget(targetPath)
			if err != nil {
				return err
			}
			if !overwrite {
				_, err := os.Stat(target)
				switch {
				case err == nil:
					return fmt.Errorf("%s already exists (pass --overwrite to replace it)", target)
				case !errors.Is(err, fs.ErrNotExist):
					return fmt.Errorf("check %s: %w", target, err)
				}
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}
			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("write sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set footage.api_key (or export PEXELS_API_KEY) before rendering in footage mode.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Where to write the file (default: the standard config path)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

// configTarget resolves the init destination, defaulting to the standard
// config path.
func configTarget(flagValue string) (string, error) {
	if target := strings.TrimSpace(flagValue); target != "" {
		expanded, err := config.ExpandPath(target)
		if err != nil {
			return "", fmt.Errorf("resolve config path: %w", err)
		}
		return expanded, nil
	}
	target, err := config.DefaultConfigPath()
	if err != nil {
		return "", fmt.Errorf("determine default config path: %w", err)
	}
	return target, nil
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Check the configuration and the directories it names",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(ctx.requestedConfigPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}

			rep := newReporter(cmd.OutOrStdout())
			rep.heading("Configuration")
			rep.rows(configRows(cfg, path, exists)...)
			if rep.failed > 0 {
				return fmt.Errorf("configuration has %d problem(s)", rep.failed)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration valid")
			return nil
		},
	}
}

// configRows reports the settings a render depends on. Load already rejects
// footage mode without a key, so a missing key is only a warning here.
func configRows(cfg *config.Config, path string, exists bool) []row {
	rows := make([]row, 0, 8)
	if exists {
		rows = append(rows, row{label: "config file", level: levelOK, detail: path})
	} else {
		rows = append(rows, row{label: "config file", level: levelWarn, detail: path + " not found; using defaults"})
	}
	for _, dir := range []struct{ name, path string }{
		{"work dir", cfg.Paths.WorkDir},
		{"output dir", cfg.Paths.OutputDir},
		{"log dir", cfg.Paths.LogDir},
		{"storage dir", cfg.Paths.StorageDir},
	} {
		rows = append(rows, preflightRow(preflight.CheckDirectoryAccess(dir.name, dir.path)))
	}

	footageKey := row{label: "footage api key", level: levelOK, detail: "set"}
	if strings.TrimSpace(cfg.Footage.APIKey) == "" {
		footageKey.level, footageKey.detail = levelWarn, "not set; footage renders unavailable"
	}
	rows = append(rows, footageKey)

	notify := row{label: "notifications", level: levelOK, detail: cfg.Notifications.NtfyTopic}
	if notify.detail == "" {
		notify.level, notify.detail = levelWarn, "disabled"
	}
	return append(rows, notify)
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderKeyValues([][2]string{
				{"Render mode", cfg.Composition.Mode},
				{"Quality", cfg.Composition.Quality},
				{"Synthesis", fmt.Sprintf("%s (%s)", cfg.Synthesis.Backend, cfg.Synthesis.DefaultModel)},
				{"Clone model", valueOrDash(cfg.Synthesis.CloneModel)},
				{"Work dir", cfg.Paths.WorkDir},
				{"Output dir", cfg.Paths.OutputDir},
				{"Footage key", yesNo(strings.TrimSpace(cfg.Footage.APIKey) != "")},
				{"Notifications", valueOrDash(cfg.Notifications.NtfyTopic)},
			}))
			return nil
		},
	}
}
