package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/upb/blog-ai-gateway/app"
	"github.com/upb/blog-ai-gateway/services/routing"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var taskFlag string
	var modelFlag string
	var systemFlag string

	cmd := &cobra.Command{
		Use:   "generate [prompt]",
		Short: "Generate text through the router; reads the prompt from stdin when no argument is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := readPrompt(cmd, args)
			if err != nil {
				return err
			}

			return ctx.withDeps(cmd.Context(), func(deps *app.Dependencies) error {
				res, err := deps.Router.Execute(cmd.Context(), routing.GenerationRequest{
					Prompt:       prompt,
					SystemPrompt: systemFlag,
					TaskType:     routing.ParseTaskType(taskFlag),
					Model:        strings.TrimSpace(modelFlag),
				})
				if err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), res.Text)
				fmt.Fprintf(cmd.ErrOrStderr(), "model=%s provider=%s attempts=%d fallback=%t latency=%s\n",
					res.Model, res.Provider, res.Attempts, res.FallbackUsed, res.Latency.Round(time.Millisecond))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&taskFlag, "task", string(routing.TaskSimple), "Task type hint for model selection")
	cmd.Flags().StringVar(&modelFlag, "model", "", "Explicit model ID, bypassing the strategy")
	cmd.Flags().StringVar(&systemFlag, "system", "", "Optional system prompt")
	return cmd
}

func readPrompt(cmd *cobra.Command, args []string) (string, error) {
	prompt := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read prompt: %w", err)
		}
		prompt = string(data)
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt is required")
	}
	return prompt, nil
}
