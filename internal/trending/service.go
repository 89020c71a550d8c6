package trending

import (
	"context"
	"errors"
	"time"

	"github.com/aman-zulfiqar/meme-scout/internal/constants"
	"github.com/aman-zulfiqar/meme-scout/internal/dexscreener"
	"github.com/aman-zulfiqar/meme-scout/internal/models"
	"github.com/aman-zulfiqar/meme-scout/internal/storage"
	"github.com/sirupsen/logrus"
)

// PairFetcher is satisfied by *dexscreener.Client.
type PairFetcher interface {
	FetchTrending(ctx context.Context, tf dexscreener.Timeframe) ([]dexscreener.Pair, error)
}

// ServiceConfig wires the optional side stores. Nil members are skipped.
type ServiceConfig struct {
	Fetcher   PairFetcher
	Cache     storage.SnapshotCache
	Store     storage.SnapshotStore
	Publisher storage.SnapshotPublisher
	Logger    *logrus.Logger
	Now       func() time.Time
}

// Service produces trending snapshots. It holds no mutable state and is safe
// for concurrent use.
type Service struct {
	fetcher   PairFetcher
	cache     storage.SnapshotCache
	store     storage.SnapshotStore
	publisher storage.SnapshotPublisher
	logger    *logrus.Logger
	now       func() time.Time
}

func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Fetcher == nil {
		return nil, errors.New("trending: fetcher is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{
		fetcher:   cfg.Fetcher,
		cache:     cfg.Cache,
		store:     cfg.Store,
		publisher: cfg.Publisher,
		logger:    cfg.Logger,
		now:       cfg.Now,
	}, nil
}

// Trending returns at most limit entries for tf and whether they came from
// the cache. Fetch errors are returned unchanged so callers can match them
// with errors.Is; cache, store and publish failures are only logged.
func (s *Service) Trending(ctx context.Context, tf dexscreener.Timeframe, limit int) (*models.Snapshot, bool, error) {
	if !tf.Valid() {
		return nil, false, dexscreener.ErrUnknownTimeframe
	}
	if limit <= 0 {
		limit = constants.DefaultTrendingLimit
	}

	log := s.logger.WithField("timeframe", tf.String())

	if s.cache != nil {
		snap, err := s.cache.GetSnapshot(ctx, tf.String())
		switch {
		case err == nil:
			log.Debug("trending cache hit")
			return snap.Limit(limit), true, nil
		case !errors.Is(err, storage.ErrCacheMiss):
			log.WithError(err).Warn("trending cache read failed")
		}
	}

	pairs, err := s.fetcher.FetchTrending(ctx, tf)
	if err != nil {
		return nil, false, err
	}

	// The full page is kept so a later request with a larger limit can be
	// served from the cache.
	snap := &models.Snapshot{
		Timeframe: tf.String(),
		FetchedAt: s.now().UTC(),
		Entries:   BuildEntries(pairs, tf, constants.MaxTrendingLimit),
	}
	log.WithField("pairs", len(pairs)).Info("fetched trending snapshot")

	s.record(ctx, log, snap)
	return snap.Limit(limit), false, nil
}

func (s *Service) record(ctx context.Context, log *logrus.Entry, snap *models.Snapshot) {
	if s.cache != nil {
		if err := s.cache.SetSnapshot(ctx, snap); err != nil {
			log.WithError(err).Warn("trending cache write failed")
		}
	}
	if s.store != nil {
		if err := s.store.InsertSnapshot(ctx, snap); err != nil {
			log.WithError(err).Error("snapshot insert failed")
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishSnapshot(ctx, snap); err != nil {
			log.WithError(err).Warn("snapshot publish failed")
		}
	}
}
