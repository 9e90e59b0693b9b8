// Command supportbot-api runs the customer-support chat HTTP API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/homeserve-ai/supportbot/internal/cache"
	"github.com/homeserve-ai/supportbot/internal/classify"
	"github.com/homeserve-ai/supportbot/internal/config"
	"github.com/homeserve-ai/supportbot/internal/dispatch"
	"github.com/homeserve-ai/supportbot/internal/langdetect"
	"github.com/homeserve-ai/supportbot/internal/llm"
	"github.com/homeserve-ai/supportbot/internal/observability"
	"github.com/homeserve-ai/supportbot/internal/searching"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	// Optional .env for local development.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: cfg.Observability.ServiceName,
	})

	store, err := buildStore(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize cache store")
	}
	defer store.Close()

	intents := cache.NewIntentCache(store)
	dispatcher := dispatch.New(dispatch.Options{
		Classifier: classify.NewClassifier(classify.DefaultRuleSet(), intents, logger.WithComponent("classify"), cfg.Classifier.TieBreakConfidence),
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

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      newRouter(dispatcher, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdown)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
	}
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
