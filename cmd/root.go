package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spigell/scholar-match/internal/ai"
	"github.com/spigell/scholar-match/internal/ai/gateway"
	"github.com/spigell/scholar-match/internal/ai/gemini"
	"github.com/spigell/scholar-match/internal/ai/perplexity"
	"github.com/spigell/scholar-match/internal/aicache"
	"github.com/spigell/scholar-match/internal/pipeline"
	"github.com/spigell/scholar-match/internal/secrets"
	"github.com/spigell/scholar-match/internal/store"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	app = "scholar-match"
)

type Config struct {
	AI *AIConfig `mapstructure:"ai"`
}

type AIConfig struct {
	Provider     string            `mapstructure:"provider"`
	MaxTokens    int               `mapstructure:"max-tokens"`
	MaxLogLength int               `mapstructure:"max-log-length"`
	CacheTTL     time.Duration     `mapstructure:"cache-ttl"`
	Perplexity   *PerplexityConfig `mapstructure:"perplexity"`
	Gemini       *GeminiConfig     `mapstructure:"gemini"`
}

type PerplexityConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

type GeminiConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "scholar-match ranks researcher profiles against a job description using an AI completion service",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.perplexity.api-key-file", "PERPLEXITY_API_KEY_FILE"); err != nil {
		log.Fatalf("binding PERPLEXITY_API_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is scholar-match.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// The version command works without any configuration.
	if versionCmd.CalledAs() != "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// A missing config file is fine (env and flags may be enough), a
	// malformed one is not.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}

	return config, nil
}

// newCompleter builds the configured completion provider. Perplexity is the
// default; Gemini is available behind ai.provider.
func newCompleter(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Completer, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))

	switch provider {
	case "", "perplexity":
		keyFile := ""
		model := ""
		if cfg.Perplexity != nil {
			keyFile = cfg.Perplexity.APIKeyFile
			model = cfg.Perplexity.Model
		}
		if keyFile == "" {
			keyFile = viper.GetString("ai.perplexity.api-key-file")
		}
		apiKey, err := secrets.Load(secrets.Source{
			Name: "perplexity api key",
			File: keyFile,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.perplexity.api-key-file or PERPLEXITY_API_KEY_FILE)", err)
		}
		return perplexity.New(apiKey, model, logger)

	case "gemini":
		if cfg.Gemini == nil {
			return nil, errors.New("gemini configuration is required when ai.provider is gemini")
		}
		apiKey, err := secrets.Load(secrets.Source{
			Name: "gemini api key",
			File: cfg.Gemini.APIKeyFile,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
		}
		return gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, logger)

	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

// buildPipeline wires the configured provider, gateway, cache and store into
// the caller-facing pipeline.
func buildPipeline(ctx context.Context, logger *zap.Logger) (*pipeline.Pipeline, error) {
	config, err := getConfig()
	if err != nil {
		return nil, fmt.Errorf("getting a config: %w", err)
	}

	completer, err := newCompleter(ctx, config.AI, logger)
	if err != nil {
		return nil, fmt.Errorf("building completion provider: %w", err)
	}

	cache := aicache.New(config.AI.CacheTTL)

	gw, err := gateway.New(completer, cache, logger, config.AI.MaxTokens, config.AI.MaxLogLength)
	if err != nil {
		return nil, fmt.Errorf("building completion gateway: %w", err)
	}

	return pipeline.New(gw, store.New(), logger)
}
