// Command supportbot-cli is a developer tool for exercising the support
// bot pipeline from a terminal.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/homeserve-ai/supportbot/internal/cache"
	"github.com/homeserve-ai/supportbot/internal/classify"
	"github.com/homeserve-ai/supportbot/internal/config"
	"github.com/homeserve-ai/supportbot/internal/dispatch"
	"github.com/homeserve-ai/supportbot/internal/langdetect"
	"github.com/homeserve-ai/supportbot/internal/llm"
	"github.com/homeserve-ai/supportbot/internal/observability"
	"github.com/homeserve-ai/supportbot/internal/searching"
)

var configPath string

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "supportbot-cli",
		Short: "Developer tooling for the support bot pipeline",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")

	root.AddCommand(askCmd(), classifyCmd(), clearCacheCmd())

	if err := root.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

func buildStore(cfg *config.Config) (cache.Store, error) {
	if cfg.Cache.Driver == "redis" {
		return cache.NewRedisStore(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			PoolSize: cfg.Cache.Redis.PoolSize,
			Prefix:   cfg.Cache.Redis.Prefix,
		})
	}
	return cache.NewMemoryStore(), nil
}

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [query]",
		Short: "Run a query through the full pipeline and print the reply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := buildStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			logger := observability.NewLogger(observability.LogConfig{
				Level:       "warn",
				Format:      "console",
				ServiceName: "supportbot-cli",
			})

			intents := cache.NewIntentCache(store)
			dispatcher := dispatch.New(dispatch.Options{
				Classifier: classify.NewClassifier(classify.DefaultRuleSet(), intents, logger, cfg.Classifier.TieBreakConfidence),
				Intents:    intents,
				Replies:    cache.NewReplyCache(store),
				Searcher: searching.NewClient(searching.Config{
					Endpoint: cfg.Retrieval.Endpoint,
					Timeout:  cfg.Retrieval.Timeout,
				}),
				Generator: llm.NewClient(llm.Config{
					BaseURL:    cfg.LLM.BaseURL,
					APIKey:     cfg.LLM.APIKey,
					Model:      cfg.LLM.Model,
					Timeout:    cfg.LLM.Timeout,
					MaxRetries: cfg.LLM.MaxRetries,
				}, logger),
				Language: langdetect.NewPolicy(nil, cfg.Languages.FillerWords),
				Logger:   logger,
				Config:   cfg.Dispatcher,
				TopK:     cfg.Retrieval.TopK,
			})

			reply := dispatcher.ProcessQuery(context.Background(), args[0])
			color.Green(reply)
			return nil
		},
	}
}

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify [query]",
		Short: "Show how a query is normalized and classified",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			query := args[0]
			normalized := classify.Normalize(query)
			classifier := classify.NewClassifier(classify.DefaultRuleSet(), nil, observability.Nop(), cfg.Classifier.TieBreakConfidence)
			result := classifier.Evaluate(query)
			final := classifier.Classify(context.Background(), query)

			bold := color.New(color.Bold)
			bold.Print("Normalized:  ")
			fmt.Println(normalized)
			bold.Print("Fingerprint: ")
			fmt.Println(classify.Fingerprint(query))
			bold.Print("Coarse:      ")
			fmt.Printf("%s (confidence %.2f)\n", result.Intent, result.Confidence)
			bold.Print("Final:       ")
			color.Cyan(string(final))
			if len(result.Matched) > 0 {
				bold.Print("Matched:     ")
				fmt.Println(result.Matched)
			}
			return nil
		},
	}
}

func clearCacheCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-cache",
		Short: "Empty the intent and reply caches",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Cache.Driver != "redis" {
				return fmt.Errorf("clear-cache requires the redis cache driver; the memory cache is per-process")
			}

			store, err := buildStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Clear(context.Background()); err != nil {
				return err
			}
			color.Green("Caches cleared")
			return nil
		},
	}
}
