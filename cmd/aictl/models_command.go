package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/upb/blog-ai-gateway/app"
	"github.com/upb/blog-ai-gateway/services/routing"
)

type modelsView struct {
	Strategy      string                      `json:"strategy"`
	FallbackModel string                      `json:"fallback_model"`
	Models        []routing.ModelStatus       `json:"models"`
	RoutingTable  map[routing.TaskType]string `json:"routing_table"`
}

func newModelsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List known models, their availability and the current routing table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withDeps(cmd.Context(), func(deps *app.Dependencies) error {
				view := modelsView{
					Strategy:      string(deps.Router.Strategy()),
					FallbackModel: deps.Router.FallbackModel(),
					Models:        deps.Router.Models(),
					RoutingTable:  deps.Router.RoutingTable(),
				}
				if asJSON {
					return writeJSON(cmd, view)
				}
				return printModels(cmd, view)
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func printModels(cmd *cobra.Command, view modelsView) error {
	out := cmd.OutOrStdout()

	rows := make([][]string, 0, len(view.Models))
	for _, m := range view.Models {
		rows = append(rows, []string{
			m.ID,
			m.Provider,
			string(m.Quality),
			string(m.Latency),
			strconv.FormatFloat(m.CostPerMillionTokens, 'f', 3, 64),
			yesNo(m.Available),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Model", "Provider", "Quality", "Latency", "$/1M tokens", "Available"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	))

	fmt.Fprintf(out, "Strategy: %s\n", view.Strategy)
	fmt.Fprintf(out, "Fallback: %s\n", view.FallbackModel)

	if len(view.RoutingTable) == 0 {
		fmt.Fprintln(out, "Routing:  no backend configured")
		return nil
	}

	routes := make([][]string, 0, len(routing.KnownTaskTypes))
	for _, task := range routing.KnownTaskTypes {
		routes = append(routes, []string{string(task), view.RoutingTable[task]})
	}
	fmt.Fprintln(out, renderTable([]string{"Task", "Model"}, routes, nil))
	return nil
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
