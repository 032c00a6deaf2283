package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spigell/scholar-match/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var matchCmd = &cobra.Command{
	Use:   "match [job-description-file]",
	Short: "Rank stored researchers against a job description",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runMatch(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().String("job", "", "job description text (alternative to a file argument)")
	matchCmd.Flags().String("candidate", "", "match only the stored candidate with this id")
	matchCmd.Flags().Bool("seed", false, "load built-in demo profiles before matching")
	matchCmd.Flags().Int("top", 0, "print only the N best matches (0 prints all)")
}

func runMatch(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	logger := newLogger()

	p, err := buildPipeline(ctx, logger)
	if err != nil {
		logger.Fatal("building pipeline", zap.Error(err))
	}

	if seed, _ := cmd.Flags().GetBool("seed"); seed {
		count := p.Seed()
		logger.Info("seeded demo profiles", zap.Int("count", count))
	}

	jobText := readJobText(cmd, args, logger)

	if candidateID, _ := cmd.Flags().GetString("candidate"); candidateID != "" {
		result, err := p.MatchOne(ctx, candidateID, nil, jobText)
		if err != nil {
			logger.Fatal("matching candidate", zap.String("candidate", candidateID), zap.Error(err))
		}
		printJSON(result)
		return
	}

	matches, err := p.MatchAll(ctx, jobText)
	if err != nil {
		logger.Fatal("matching candidates", zap.Error(err))
	}

	if top, _ := cmd.Flags().GetInt("top"); top > 0 && len(matches) > top {
		matches = matches[:top]
	}

	printJSON(matches)
}

func readJobText(cmd *cobra.Command, args []string, logger *zap.Logger) string {
	jobText, _ := cmd.Flags().GetString("job")

	if jobText == "" && len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			logger.Fatal("reading job description file", zap.String("path", args[0]), zap.Error(err))
		}
		jobText = string(data)
	}

	if strings.TrimSpace(jobText) == "" {
		logger.Fatal("job description is required",
			zap.String("hint", "pass a job description file or the --job flag"),
		)
	}

	return jobText
}

func newLogger() *zap.Logger {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return l
}

func printJSON(v any) {
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("encoding result: %s", err)
	}
	fmt.Println(string(pretty))
}
