package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/upb/blog-ai-gateway/app"
	"github.com/upb/blog-ai-gateway/services/routing"
)

func newSelectCommand(ctx *commandContext) *cobra.Command {
	var strategyFlag string
	var taskFlag string

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Show which model a strategy picks for a task without calling it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withDeps(cmd.Context(), func(deps *app.Dependencies) error {
				strategy := deps.Router.Strategy()
				if cmd.Flags().Changed("strategy") {
					parsed, err := routing.ParseStrategy(strategyFlag)
					if err != nil {
						return err
					}
					strategy = parsed
				}
				task := routing.ParseTaskType(taskFlag)

				d, err := routing.SelectModel(deps.Router.Catalog(), strategy, task)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) strategy=%s task=%s\n", d.ID, d.Provider, strategy, task)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&strategyFlag, "strategy", "", "Routing strategy (smart, cost-optimized, quality-optimized, speed-optimized)")
	cmd.Flags().StringVar(&taskFlag, "task", string(routing.TaskSimple), "Task type (simple, creative, complex, seo, analysis)")
	return cmd
}
