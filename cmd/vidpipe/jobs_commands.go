package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/jobs"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/staging"
)

func newJobsCommand(ctx *commandContext) *cobra.Command {
	jobsCmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect and maintain render history",
	}
	jobsCmd.AddCommand(newJobsListCommand(ctx))
	jobsCmd.AddCommand(newJobsShowCommand(ctx))
	jobsCmd.AddCommand(newJobsCleanCommand(ctx))
	return jobsCmd
}

func newJobsListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var statusFlags []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent render jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses := make([]jobs.Status, 0, len(statusFlags))
			for _, value := range statusFlags {
				status, err := jobs.ParseStatus(value)
				if err != nil {
					return err
				}
				statuses = append(statuses, status)
			}

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			list, err := store.List(cmd.Context(), limit, statuses...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "No jobs recorded")
				return nil
			}
			rows := make([][]string, 0, len(list))
			for _, job := range list {
				rows = append(rows, []string{
					job.ShortID(),
					string(job.Status),
					job.Mode,
					job.Title,
					formatSeconds(job.AudioSeconds),
					job.CreatedAt.Local().Format("2006-01-02 15:04"),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Status", "Mode", "Title", "Audio", "Created"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum jobs to list (0 for all)")
	cmd.Flags().StringSliceVarP(&statusFlags, "status", "s", nil, "Only list jobs with these statuses")
	return cmd
}

func newJobsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <job-id>",
		Short: "Show one job by id or id prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			job, err := store.FindByPrefix(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			pairs := [][2]string{
				{"ID", job.ID.String()},
				{"Status", string(job.Status)},
				{"Mode", job.Mode},
				{"Title", job.Title},
				{"Output", valueOrDash(job.OutputPath)},
				{"Captions", valueOrDash(job.SubtitlePath)},
				{"Audio length", formatSeconds(job.AudioSeconds)},
				{"Video length", formatSeconds(job.VideoSeconds)},
				{"Sections", fmt.Sprintf("%d", job.Sections)},
				{"Placeholders", fmt.Sprintf("%d", job.Placeholders)},
				{"Clips", fmt.Sprintf("%d", job.Clips)},
				{"Created", job.CreatedAt.Local().Format(time.RFC3339)},
				{"Elapsed", job.Elapsed().Round(time.Second).String()},
			}
			if job.ErrorMessage != "" {
				pairs = append(pairs, [2]string{"Error", strings.TrimSpace(job.ErrorKind + ": " + job.ErrorMessage)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderKeyValues(pairs))
			return nil
		},
	}
}

func newJobsCleanCommand(ctx *commandContext) *cobra.Command {
	var maxAge time.Duration
	var all bool
	var markInterrupted bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove stale workspaces, expired search cache entries, and old history",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			c := cmd.Context()
			logger := ctx.loggerValue()
			out := cmd.OutOrStdout()

			stale := staging.CleanStale(c, cfg.Paths.WorkDir, maxAge, logger)

			var interrupted int64
			if markInterrupted {
				if interrupted, err = store.MarkInterrupted(c); err != nil {
					return err
				}
			}
			inFlight, err := store.List(c, 0, jobs.StatusPending, jobs.StatusRunning)
			if err != nil {
				return err
			}
			active := make(map[string]struct{}, len(inFlight))
			for _, job := range inFlight {
				active[job.ID.String()] = struct{}{}
			}
			orphaned := staging.CleanOrphaned(c, cfg.Paths.WorkDir, active, logger)

			pruned, err := store.PruneSearches(c, cfg.FootageCacheTTL())
			if err != nil {
				return err
			}
			var cleared int64
			if all {
				if cleared, err = store.Clear(c); err != nil {
					return err
				}
			}

			removed := len(stale.Removed) + len(orphaned.Removed)
			fmt.Fprintln(out, renderKeyValues([][2]string{
				{"Workspaces removed", fmt.Sprintf("%d", removed)},
				{"Jobs interrupted", fmt.Sprintf("%d", interrupted)},
				{"Searches pruned", fmt.Sprintf("%d", pruned)},
				{"Jobs cleared", fmt.Sprintf("%d", cleared)},
			}))
			failures := append(stale.Errors, orphaned.Errors...)
			if len(failures) > 0 {
				rep := newReporter(cmd.ErrOrStderr())
				for _, f := range failures {
					rep.rows(cleanupRow(f))
				}
				return fmt.Errorf("%d workspace(s) could not be removed", len(failures))
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&maxAge, "max-age", 24*time.Hour, "Remove workspaces older than this")
	cmd.Flags().BoolVar(&all, "all", false, "Also delete finished jobs from history")
	cmd.Flags().BoolVar(&markInterrupted, "interrupted", false, "Mark pending and running jobs as failed (only when no render is in progress)")
	return cmd
}
