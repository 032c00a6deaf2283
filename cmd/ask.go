package cmd

import (
	"context"
	"errors"

	"github.com/spigell/scholar-match/internal/ai"
	"github.com/spigell/scholar-match/internal/pipeline"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a free-form question about a candidate",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runAsk(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().String("candidate", "", "stored candidate id to ask about")
	askCmd.Flags().String("context-file", "", "YAML/JSON file with the candidate context")
}

func runAsk(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	logger := newLogger()

	p, err := buildPipeline(ctx, logger)
	if err != nil {
		logger.Fatal("building pipeline", zap.Error(err))
	}

	candidate, err := resolveQAContext(cmd, p)
	if err != nil {
		logger.Fatal("resolving candidate context", zap.Error(err))
	}

	result, err := p.Ask(ctx, args[0], candidate)
	if err != nil {
		logger.Fatal("asking about candidate", zap.Error(err))
	}

	printJSON(result)
}

func resolveQAContext(cmd *cobra.Command, p *pipeline.Pipeline) (*ai.QAContext, error) {
	if candidateID, _ := cmd.Flags().GetString("candidate"); candidateID != "" {
		stored, ok := p.Store().GetByID(candidateID)
		if !ok {
			return nil, errors.New("no stored candidate with id " + candidateID)
		}
		return &ai.QAContext{
			Name:        stored.Name,
			Institution: stored.Affiliation,
			Bio:         stored.Summary,
			Papers:      stored.Papers,
		}, nil
	}

	contextFile, _ := cmd.Flags().GetString("context-file")
	if contextFile == "" {
		return nil, errors.New("either --candidate or --context-file is required")
	}

	v := viper.New()
	v.SetConfigFile(contextFile)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	return pipeline.DecodeQAContext(v.AllSettings())
}
