package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var verbose bool
	return newRootCommandWith(newCommandContext(&verbose), &verbose)
}

func newRootCommandWith(ctx *commandContext, verbose *bool) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "aictl",
		Short:         "Inspect model routing and run blog generation tasks",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(verbose, "verbose", "v", false, "Log routing decisions to stderr")

	rootCmd.AddCommand(newModelsCommand(ctx))
	rootCmd.AddCommand(newSelectCommand(ctx))
	rootCmd.AddCommand(newGenerateCommand(ctx))
	rootCmd.AddCommand(newTitlesCommand(ctx))
	rootCmd.AddCommand(newSEOCommand(ctx))

	return rootCmd
}
