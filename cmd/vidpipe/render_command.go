package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/pipeline"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/preflight"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/services"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var output string
	var mode string
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "render <job-file>",
		Short: "Render a job file into a narrated video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			job, err := loadJob(args[0])
			if err != nil {
				return err
			}
			if output = strings.TrimSpace(output); output != "" {
				job.Output = output
			}
			if mode = strings.TrimSpace(mode); mode != "" {
				job.Mode = strings.ToLower(mode)
			}

			out := cmd.OutOrStdout()
			if !skipPreflight {
				effective := job.Mode
				if effective == "" {
					effective = cfg.Composition.Mode
				}
				results := preflight.RunAll(cmd.Context(), cfg, effective)
				if failed := preflight.Failed(results); len(failed) > 0 {
					rep := newReporter(cmd.ErrOrStderr())
					rep.heading("Preflight")
					for _, r := range results {
						rep.rows(preflightRow(r))
					}
					return fmt.Errorf("preflight failed: %d check(s) did not pass (use --skip-preflight to bypass)", len(failed))
				}
			}

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			runner, err := ctx.newRunner(store)
			if err != nil {
				return err
			}
			result, err := runner.Render(cmd.Context(), job)
			if err != nil {
				return renderError(result, err)
			}

			fmt.Fprintln(out, renderKeyValues([][2]string{
				{"Job", shortID(result.JobID.String())},
				{"Mode", string(result.Mode)},
				{"Video", result.OutputPath},
				{"Audio", result.AudioPath},
				{"Captions", valueOrDash(result.SubtitlePath)},
				{"Audio length", formatSeconds(result.AudioSeconds)},
				{"Video length", formatSeconds(result.VideoSeconds)},
				{"Sections", fmt.Sprintf("%d", result.Sections)},
				{"Placeholders", fmt.Sprintf("%d", result.Placeholders)},
				{"Clips", fmt.Sprintf("%d", result.Clips)},
				{"Encoder", valueOrDash(result.Encoder)},
				{"Elapsed", result.Elapsed.Round(time.Millisecond).String()},
			}))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output video path (overrides the job file)")
	cmd.Flags().StringVar(&mode, "mode", "", "Render mode: overlay or footage (overrides the job file)")
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip directory, dependency, and API checks")
	return cmd
}

func renderError(result *pipeline.Result, err error) error {
	status := services.FailureStatus(err)
	if result != nil {
		return fmt.Errorf("job %s %s: %w", shortID(result.JobID.String()), status, err)
	}
	return fmt.Errorf("%s: %w", status, err)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatSeconds(seconds float64) string {
	return fmt.Sprintf("%.2fs", seconds)
}

func valueOrDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
