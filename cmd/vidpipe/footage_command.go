package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/script"
)

func newFootageCommand(ctx *commandContext) *cobra.Command {
	var duration float64

	cmd := &cobra.Command{
		Use:   "footage <job-file>",
		Short: "Preview the stock clips a footage render would use",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := loadJob(args[0])
			if err != nil {
				return err
			}
			target := duration
			if target <= 0 {
				target = job.TargetDuration
			}
			if target <= 0 {
				target = estimateSeconds(script.TotalWords(job.Sections))
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
			clips, err := runner.SelectFootage(cmd.Context(), job.Sections, target)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(clips) == 0 {
				fmt.Fprintln(out, "No clips matched")
				return nil
			}
			rows := make([][]string, 0, len(clips))
			var total float64
			for i, clip := range clips {
				total += clip.Duration
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					strconv.FormatInt(clip.ID, 10),
					clip.Keyword,
					formatSeconds(clip.Duration),
					fmt.Sprintf("%dx%d", clip.Width, clip.Height),
					strings.Join(clip.Tags, ", "),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Clip", "Keyword", "Length", "Size", "Tags"},
				rows,
				[]columnAlignment{alignRight, alignRight, alignLeft, alignRight, alignLeft, alignLeft},
			))
			fmt.Fprintf(out, "Total %s for target %s (%.0f%% coverage)\n",
				formatSeconds(total), formatSeconds(target), 100*total/target)
			return nil
		},
	}

	cmd.Flags().Float64Var(&duration, "duration", 0, "Seconds of footage to cover (defaults to the job target or a word-count estimate)")
	return cmd
}
