package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search for research papers on a topic",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runSearch(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntP("limit", "l", 10, "maximum number of papers to print")
}

func runSearch(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	logger := newLogger()

	p, err := buildPipeline(ctx, logger)
	if err != nil {
		logger.Fatal("building pipeline", zap.Error(err))
	}

	limit, _ := cmd.Flags().GetInt("limit")

	result, err := p.Search(ctx, args[0], limit)
	if err != nil {
		logger.Fatal("searching literature", zap.Error(err))
	}

	printJSON(result)
}
