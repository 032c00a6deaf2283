package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spigell/scholar-match/internal/ai"
	"github.com/spigell/scholar-match/internal/util"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"

	// Enrichment diagnostics keep more of the upstream reply than regular
	// debug previews: debugging prompt/response drift depends on it.
	diagnosticLogLength = 500
)

var enrichCmd = &cobra.Command{
	Use:   "enrich <name> <affiliation>",
	Short: "Fetch a researcher profile from the completion service, sanitize and store it",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runEnrich(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(enrichCmd)

	enrichCmd.Flags().IntP("limit", "l", 10, "maximum number of papers to keep (capped at 20)")
	enrichCmd.Flags().BoolP("auto-approve", "y", false, "store the profile without asking for confirmation")
}

func runEnrich(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	logger := newLogger()

	p, err := buildPipeline(ctx, logger)
	if err != nil {
		logger.Fatal("building pipeline", zap.Error(err))
	}

	name, affiliation := args[0], args[1]
	limit, _ := cmd.Flags().GetInt("limit")

	sanitized, err := p.FetchSanitized(ctx, name, affiliation, limit)
	if err != nil {
		fields := []zap.Field{
			zap.String("researcher", name),
			zap.Error(err),
		}
		// Enrichment has no fallback; surface the raw upstream reply so
		// prompt/response drift can be debugged.
		var parseErr *ai.ParseError
		if errors.As(err, &parseErr) {
			fields = append(fields, zap.String("upstream_reply", util.TruncateForLog(parseErr.Raw, diagnosticLogLength)))
		}
		logger.Fatal("enriching profile", fields...)
	}

	fmt.Printf("Verified profile for %s (%s), %d paper(s):\n", sanitized.Name, sanitized.Affiliation, len(sanitized.Papers))
	for i, paper := range sanitized.Papers {
		fmt.Printf("  %d. %s (%s)\n     %s\n", i+1, paper.Title, paper.Year, paper.URL)
	}

	if autoApprove, _ := cmd.Flags().GetBool("auto-approve"); !autoApprove {
		prompt := promptui.Select{
			Label: "Store this profile?",
			Items: []string{PromptYes, PromptNo},
		}

		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if action != PromptYes {
			logger.Info("discarding fetched profile", zap.String("researcher", sanitized.Name))
			return
		}
	}

	stored := p.SaveProfile(sanitized)
	printJSON(stored)
}
