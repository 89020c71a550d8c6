// ============================================================================
// cache/pubsub.go - Redis Pub/Sub Wrapper
// ============================================================================
package cache

import (
	"context"
	"encoding/json"

	"github.com/aman-zulfiqar/meme-scout/internal/constants"
	"github.com/aman-zulfiqar/meme-scout/internal/models"
	"github.com/aman-zulfiqar/meme-scout/internal/storage"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type PubSubManager struct {
	client *redis.Client
	logger *logrus.Logger
}

func NewPubSubManager(client *redis.Client, logger *logrus.Logger) *PubSubManager {
	if logger == nil {
		logger = logrus.New()
	}
	return &PubSubManager{client: client, logger: logger}
}

// ChannelFor is the channel snapshots of a timeframe are published on.
func ChannelFor(timeframe string) string {
	return constants.PubSubChannelTrendingPrefix + timeframe
}

// PublishSnapshot publishes to the timeframe-specific channel
func (p *PubSubManager) PublishSnapshot(ctx context.Context, s *models.Snapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, ChannelFor(s.Timeframe), data).Err()
}

// Subscribe to a single channel until ctx is cancelled
func (p *PubSubManager) Subscribe(ctx context.Context, channel string, handler storage.SnapshotHandler) error {
	pubsub := p.client.Subscribe(ctx, channel)
	defer pubsub.Close()

	p.logger.WithField("channel", channel).Info("subscribed")
	return p.consume(ctx, pubsub, handler)
}

// PSubscribe to a pattern (e.g. "trending:*") until ctx is cancelled
func (p *PubSubManager) PSubscribe(ctx context.Context, pattern string, handler storage.SnapshotHandler) error {
	pubsub := p.client.PSubscribe(ctx, pattern)
	defer pubsub.Close()

	p.logger.WithField("pattern", pattern).Info("subscribed")
	return p.consume(ctx, pubsub, handler)
}

func (p *PubSubManager) consume(ctx context.Context, pubsub *redis.PubSub, handler storage.SnapshotHandler) error {
	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var s models.Snapshot
			if err := json.Unmarshal([]byte(msg.Payload), &s); err != nil {
				p.logger.WithError(err).WithField("channel", msg.Channel).Warn("error unmarshaling snapshot")
				continue
			}
			handler(&s)
		}
	}
}
