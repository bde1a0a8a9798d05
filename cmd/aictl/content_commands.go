package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/upb/blog-ai-gateway/app"
	"github.com/upb/blog-ai-gateway/services/content"
)

func newTitlesCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "titles <topic>",
		Short: "Suggest headlines for a topic",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topic := strings.Join(args, " ")
			return ctx.withDeps(cmd.Context(), func(deps *app.Dependencies) error {
				titles, err := deps.Content.GenerateTitles(cmd.Context(), topic)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, titles)
				}

				rows := make([][]string, 0, len(titles))
				for i, t := range titles {
					rows = append(rows, []string{strconv.Itoa(i + 1), t.Title, strconv.Itoa(int(t.Score))})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"#", "Title", "Score"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newSEOCommand(ctx *commandContext) *cobra.Command {
	var titleFlag string
	var fileFlag string
	var keywords []string

	cmd := &cobra.Command{
		Use:   "seo",
		Short: "Score a post for search visibility",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readContent(cmd, fileFlag)
			if err != nil {
				return err
			}

			return ctx.withDeps(cmd.Context(), func(deps *app.Dependencies) error {
				analysis, err := deps.Content.AnalyzeSEO(cmd.Context(), content.SEORequest{
					Title:    titleFlag,
					Content:  body,
					Keywords: keywords,
				})
				if err != nil {
					return err
				}
				return writeJSON(cmd, analysis)
			})
		},
	}

	cmd.Flags().StringVar(&titleFlag, "title", "", "Post title")
	cmd.Flags().StringVar(&fileFlag, "file", "-", "Post body file, - for stdin")
	cmd.Flags().StringSliceVar(&keywords, "keyword", nil, "Target keyword (repeatable)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func readContent(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read content: %w", err)
	}
	return string(data), nil
}
