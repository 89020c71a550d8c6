package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/aman-zulfiqar/meme-scout/internal/cache"
	"github.com/aman-zulfiqar/meme-scout/internal/config"
	"github.com/aman-zulfiqar/meme-scout/internal/dexscreener"
	"github.com/aman-zulfiqar/meme-scout/internal/server"
	"github.com/aman-zulfiqar/meme-scout/internal/trending"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// env bootstrap function
func loadEnv(logger *logrus.Logger) {
	// Get the project root directory (where go.mod is)
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "../..")
	envPath := filepath.Join(projectRoot, ".env")

	if err := godotenv.Load(envPath); err != nil {
		logger.Warnf("no .env file found at %s, using system environment variables", envPath)
	} else {
		logger.Infof("loaded .env from %s", envPath)
	}
}

// main is the entry point for the API server
// It wires the trending service with its optional Redis and ClickHouse backends
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.InfoLevel)

	// load .env BEFORE anything reads os.Getenv
	loadEnv(logger)

	cfg := config.Load()
	if err := cfg.ValidateAPI(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	svcCfg := trending.ServiceConfig{
		Fetcher: dexscreener.NewClient(dexscreener.ClientConfig{
			BaseURL:   cfg.DexScreenerBaseURL,
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.HTTPTimeout,
			Logger:    logger,
		}),
		Logger: logger,
	}

	// Redis: snapshot cache + live pub/sub (optional)
	if cfg.RedisAddr != "" {
		rclient := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
			DB:   0,
		})
		if err := rclient.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Fatal("failed to connect to Redis")
		}
		snapshotCache := cache.NewRedisCacheFromClient(rclient, cfg.CacheTTL, logger)
		defer snapshotCache.Close()

		svcCfg.Cache = snapshotCache
		svcCfg.Publisher = cache.NewPubSubManager(rclient, logger)
		logger.WithFields(logrus.Fields{"addr": cfg.RedisAddr, "ttl": cfg.CacheTTL}).Info("redis snapshot cache enabled")
	}

	// ClickHouse: snapshot history (optional)
	if cfg.ClickHouseAddr != "" {
		store, err := cache.NewClickHouseStore(ctx, cache.ClickHouseConfig{
			Addr:     cfg.ClickHouseAddr,
			Database: cfg.ClickHouseDatabase,
			Username: cfg.ClickHouseUsername,
			Password: cfg.ClickHousePassword,
			Logger:   logger,
		})
		if err != nil {
			logger.WithError(err).Fatal("failed to connect to ClickHouse")
		}
		defer store.Close()
		svcCfg.Store = store
	}

	svc, err := trending.NewService(svcCfg)
	if err != nil {
		logger.WithError(err).Fatal("failed to create trending service")
	}

	srv, err := server.NewServer(server.ServerDeps{
		Handlers: &server.Handlers{
			Trending:     svc,
			DefaultLimit: cfg.TrendingLimit,
			DevMode:      cfg.DevMode,
			Logger:       logger,
		},
		Config: server.ServerConfig{
			Addr:      cfg.APIAddr,
			DevMode:   cfg.DevMode,
			APIKey:    cfg.APIKey,
			RateLimit: cfg.APIRateLimit,
			RateBurst: cfg.APIRateBurst,
		},
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to create http server")
	}

	go func() {
		<-sigCh
		logger.Info("shutting down")
		cancel()
		_ = srv.Shutdown(context.Background())
	}()

	logger.WithField("addr", cfg.APIAddr).Info("api server starting")
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Fatal("api server failed")
	}

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer waitCancel()
	if err := srv.WaitClosed(waitCtx); err != nil {
		logger.WithError(err).Warn("shutdown did not complete")
	}
}
