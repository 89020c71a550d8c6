// ============================================================================
// cmd/subscriber/main.go - Example Subscriber (Consumer)
// ============================================================================
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/aman-zulfiqar/meme-scout/internal/cache"
	"github.com/aman-zulfiqar/meme-scout/internal/config"
	"github.com/aman-zulfiqar/meme-scout/internal/constants"
	"github.com/aman-zulfiqar/meme-scout/internal/models"
	"github.com/aman-zulfiqar/meme-scout/internal/trending"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"})
	logger.SetOutput(os.Stderr)

	cfg := config.Load()
	addr := cfg.RedisAddr
	if addr == "" {
		addr = "localhost:6379"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Fatal("failed to connect to Redis")
	}

	pubsub := cache.NewPubSubManager(client, logger)
	logger.WithField("pattern", constants.PubSubPatternTrending).Info("subscriber running, press Ctrl+C to stop")

	// Print every published snapshot the way the CLI does
	err := pubsub.PSubscribe(ctx, constants.PubSubPatternTrending, func(s *models.Snapshot) {
		logger.WithFields(logrus.Fields{
			"timeframe":  s.Timeframe,
			"fetched_at": s.FetchedAt,
			"entries":    len(s.Entries),
		}).Info("snapshot received")
		if err := trending.WriteLines(os.Stdout, s.Limit(cfg.TrendingLimit).Entries); err != nil {
			logger.WithError(err).Error("failed to print snapshot")
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Fatal("subscription failed")
	}
	logger.Info("shutting down subscriber")
}
