package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/deps"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/preflight"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check external tool availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			statuses := preflight.CheckSystemDeps(cmd.Context(), cfg)
			rep := newReporter(cmd.OutOrStdout())
			rep.heading("Dependencies")
			for _, status := range statuses {
				rep.rows(dependencyRow(status))
			}
			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				names := make([]string, 0, len(missing))
				for _, s := range missing {
					names = append(names, s.Name)
				}
				return fmt.Errorf("missing required dependencies: %s", strings.Join(names, ", "))
			}
			return nil
		},
	}
}
