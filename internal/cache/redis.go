package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aman-zulfiqar/meme-scout/internal/constants"
	"github.com/aman-zulfiqar/meme-scout/internal/models"
	"github.com/aman-zulfiqar/meme-scout/internal/storage"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisCache keeps the latest snapshot per timeframe with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

// NewRedisCacheFromClient wraps an existing client; ttl <= 0 uses the default.
func NewRedisCacheFromClient(client *redis.Client, ttl time.Duration, logger *logrus.Logger) *RedisCache {
	if logger == nil {
		logger = logrus.New()
	}
	if ttl <= 0 {
		ttl = constants.DefaultCacheTTL
	}
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

func (r *RedisCache) GetSnapshot(ctx context.Context, timeframe string) (*models.Snapshot, error) {
	val, err := r.client.Get(ctx, snapshotKey(timeframe)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	var s models.Snapshot
	if err := json.Unmarshal(val, &s); err != nil {
		// a bad entry is treated as absent; the next fetch overwrites it
		r.logger.WithError(err).WithField("timeframe", timeframe).Warn("dropping undecodable cached snapshot")
		return nil, storage.ErrCacheMiss
	}
	return &s, nil
}

func (r *RedisCache) SetSnapshot(ctx context.Context, s *models.Snapshot) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := r.client.Set(ctx, snapshotKey(s.Timeframe), b, r.ttl).Err(); err != nil {
		return fmt.Errorf("set snapshot: %w", err)
	}
	return nil
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

func snapshotKey(timeframe string) string {
	return constants.RedisKeyTrendingPrefix + timeframe
}
