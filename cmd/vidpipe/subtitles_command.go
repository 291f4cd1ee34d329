package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/audio"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/config"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/script"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/subtitles"
)

func newSubtitlesCommand(ctx *commandContext) *cobra.Command {
	var duration float64
	var audioPath string
	var output string

	cmd := &cobra.Command{
		Use:   "subtitles <job-file>",
		Short: "Time captions for a job against a narration length",
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

			seconds := duration
			if path := strings.TrimSpace(audioPath); path != "" {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read audio: %w", err)
				}
				if seconds, err = audio.Duration(data); err != nil {
					return fmt.Errorf("measure audio: %w", err)
				}
			}
			if seconds <= 0 {
				seconds = estimateSeconds(script.TotalWords(job.Sections))
			}

			segments := subtitles.ComputeTiming(job.Sections, seconds, subtitles.OptionsFromConfig(cfg))
			if issues := subtitles.Validate(segments, seconds); len(issues) > 0 {
				rep := newReporter(cmd.ErrOrStderr())
				for _, issue := range issues {
					rep.rows(row{label: "timing", level: levelWarn, detail: issue})
				}
			}

			target := strings.TrimSpace(output)
			if target == "" {
				fmt.Fprint(cmd.OutOrStdout(), subtitles.FormatSRT(segments))
				return nil
			}
			if target, err = config.ExpandPath(target); err != nil {
				return fmt.Errorf("resolve output path: %w", err)
			}
			if err := subtitles.WriteSRT(target, segments); err != nil {
				return fmt.Errorf("write captions: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d captions spanning %s to %s\n",
				len(segments), formatSeconds(subtitles.Span(segments)), target)
			return nil
		},
	}

	cmd.Flags().Float64Var(&duration, "duration", 0, "Narration length in seconds")
	cmd.Flags().StringVar(&audioPath, "audio", "", "WAV file whose length sets the timing")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write SRT to this path instead of stdout")
	return cmd
}
