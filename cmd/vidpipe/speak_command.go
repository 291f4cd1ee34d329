package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/config"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/fileutil"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/staging"
)

func newSpeakCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "speak <job-file>",
		Short: "Synthesize and assemble narration without rendering video",
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
			target := strings.TrimSpace(output)
			if target == "" {
				return fmt.Errorf("--output is required")
			}
			if target, err = config.ExpandPath(target); err != nil {
				return fmt.Errorf("resolve output path: %w", err)
			}

			runner, err := ctx.newRunner(nil)
			if err != nil {
				return err
			}
			ws, err := staging.Create(cfg.Paths.WorkDir, uuid.NewString())
			if err != nil {
				return err
			}
			defer ws.Remove()

			narration, err := runner.Speak(cmd.Context(), job, ws.Root)
			if err != nil {
				return err
			}
			if narration.Prerecorded() {
				err = fileutil.CopyFileVerified(narration.Path(), target)
			} else {
				err = fileutil.WriteFileAtomic(target, narration.Audio, 0o644)
			}
			if err != nil {
				return fmt.Errorf("write narration: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderKeyValues([][2]string{
				{"Audio", target},
				{"Length", formatSeconds(narration.Seconds)},
				{"Sections", fmt.Sprintf("%d", len(job.Sections))},
				{"Placeholders", fmt.Sprintf("%d", narration.Placeholders)},
				{"Prerecorded", yesNo(narration.Prerecorded())},
			}))
			if len(narration.Failures) > 0 {
				rep := newReporter(cmd.ErrOrStderr())
				for _, failure := range narration.Failures {
					rep.rows(placeholderRow(failure))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination WAV file")
	return cmd
}

// speakingRate is the words-per-second pace used when no narration exists
// to measure.
const speakingRate = 2.5

func estimateSeconds(words int) float64 {
	return math.Round(float64(words)/speakingRate*100) / 100
}
