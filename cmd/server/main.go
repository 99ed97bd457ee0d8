// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"propertychat/internal/common/config"
	"propertychat/internal/common/database"
	"propertychat/internal/common/logger"
	"propertychat/internal/common/observability"
	"propertychat/internal/genai"
	"propertychat/internal/pipeline"
	"propertychat/internal/server"
	"propertychat/internal/store"
	esstore "propertychat/internal/store/elasticsearch"
	pgstore "propertychat/internal/store/postgres"
)

// retryWithBackoff retries an operation with exponential backoff. Store
// backends routinely come up after the app in container environments.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting propertychat server",
		zap.String("environment", cfg.App.Environment),
		zap.String("store", cfg.Search.Store),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listingStore, cleanup, err := buildStore(ctx, cfg, zapLog, log)
	if err != nil {
		zapLog.Fatal("store initialization failed", zap.Error(err))
	}
	defer cleanup()

	var cache *database.RedisClient
	if cfg.Database.Redis.Address != "" {
		cache, err = database.NewRedis(cfg.Database.Redis)
		if err == nil {
			err = cache.Ping(ctx)
		}
		if err != nil {
			zapLog.Warn("redis unavailable, filter-options caching disabled", zap.Error(err))
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	completer := genai.NewClient(cfg.GenAI, log)
	chatPipeline := pipeline.New(cfg, completer, listingStore, log)
	srv := server.New(cfg, chatPipeline, listingStore, cache, obs, log)

	if err := srv.Run(ctx); err != nil {
		zapLog.Fatal("server exited", zap.Error(err))
	}
	zapLog.Info("shutdown complete")
}

// buildStore connects the configured search backend, retrying while it
// comes up.
func buildStore(ctx context.Context, cfg *config.Config, zapLog *zap.Logger, log logger.Logger) (store.ListingStore, func(), error) {
	switch cfg.Search.Store {
	case "elasticsearch":
		var client *database.ElasticsearchClient
		err := retryWithBackoff(func() error {
			var err error
			client, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return client.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Elasticsearch initialization")
		if err != nil {
			return nil, nil, err
		}
		return esstore.NewStore(client.Client, cfg.Database.Elasticsearch.Index, log), func() {}, nil

	default:
		var client *database.PostgresClient
		err := retryWithBackoff(func() error {
			var err error
			client, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return client.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "PostgreSQL initialization")
		if err != nil {
			return nil, nil, err
		}
		return pgstore.NewStore(client.DB, log), func() { client.Close() }, nil
	}
}
