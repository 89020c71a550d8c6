package trending

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/aman-zulfiqar/meme-scout/internal/dexscreener"
	"github.com/aman-zulfiqar/meme-scout/internal/models"
	"github.com/aman-zulfiqar/meme-scout/internal/storage"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	mu    sync.Mutex
	pairs []dexscreener.Pair
	err   error
	calls []dexscreener.Timeframe
}

func (f *fakeFetcher) FetchTrending(ctx context.Context, tf dexscreener.Timeframe) ([]dexscreener.Pair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, tf)
	return f.pairs, f.err
}

type memCache struct {
	snaps  map[string]*models.Snapshot
	getErr error
	setErr error
}

func newMemCache() *memCache {
	return &memCache{snaps: map[string]*models.Snapshot{}}
}

func (c *memCache) GetSnapshot(ctx context.Context, timeframe string) (*models.Snapshot, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	s, ok := c.snaps[timeframe]
	if !ok {
		return nil, storage.ErrCacheMiss
	}
	return s, nil
}

func (c *memCache) SetSnapshot(ctx context.Context, s *models.Snapshot) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.snaps[s.Timeframe] = s
	return nil
}

func (c *memCache) Ping(ctx context.Context) error { return nil }
func (c *memCache) Close() error                   { return nil }

type recorder struct {
	inserted  []*models.Snapshot
	published []*models.Snapshot
	err       error
}

func (r *recorder) InsertSnapshot(ctx context.Context, s *models.Snapshot) error {
	r.inserted = append(r.inserted, s)
	return r.err
}

func (r *recorder) PublishSnapshot(ctx context.Context, s *models.Snapshot) error {
	r.published = append(r.published, s)
	return r.err
}

func (r *recorder) Ping(ctx context.Context) error { return nil }
func (r *recorder) Close() error                   { return nil }

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

var fixedNow = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

func TestNewService_RequiresFetcher(t *testing.T) {
	_, err := NewService(ServiceConfig{})
	assert.Error(t, err)
}

func TestService_Trending_NoSideStores(t *testing.T) {
	fetcher := &fakeFetcher{pairs: makePairs(15)}
	svc, err := NewService(ServiceConfig{Fetcher: fetcher, Logger: quietLogger(), Now: fixedNow})
	require.NoError(t, err)

	snap, cached, err := svc.Trending(context.Background(), dexscreener.M5, 10)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "m5", snap.Timeframe)
	assert.Equal(t, fixedNow(), snap.FetchedAt)
	assert.Len(t, snap.Entries, 10)
	assert.Equal(t, 1, snap.Entries[0].Rank)
	assert.Equal(t, []dexscreener.Timeframe{dexscreener.M5}, fetcher.calls)
}

func TestService_Trending_DefaultLimit(t *testing.T) {
	svc, err := NewService(ServiceConfig{Fetcher: &fakeFetcher{pairs: makePairs(30)}, Logger: quietLogger()})
	require.NoError(t, err)

	snap, _, err := svc.Trending(context.Background(), dexscreener.H24, 0)
	require.NoError(t, err)
	assert.Len(t, snap.Entries, 10)
}

func TestService_Trending_UnknownTimeframe(t *testing.T) {
	fetcher := &fakeFetcher{}
	svc, err := NewService(ServiceConfig{Fetcher: fetcher, Logger: quietLogger()})
	require.NoError(t, err)

	_, _, err = svc.Trending(context.Background(), dexscreener.Timeframe("w1"), 10)
	assert.ErrorIs(t, err, dexscreener.ErrUnknownTimeframe)
	assert.Empty(t, fetcher.calls)
}

func TestService_Trending_FetchErrorPassesThrough(t *testing.T) {
	rec := &recorder{}
	cache := newMemCache()
	svc, err := NewService(ServiceConfig{
		Fetcher:   &fakeFetcher{err: dexscreener.ErrNoServerData},
		Cache:     cache,
		Store:     rec,
		Publisher: rec,
		Logger:    quietLogger(),
	})
	require.NoError(t, err)

	snap, _, err := svc.Trending(context.Background(), dexscreener.H24, 10)
	assert.Nil(t, snap)
	assert.ErrorIs(t, err, dexscreener.ErrNoServerData)
	assert.Empty(t, rec.inserted)
	assert.Empty(t, rec.published)
	assert.Empty(t, cache.snaps)
}

func TestService_Trending_CacheHitSkipsFetch(t *testing.T) {
	fetcher := &fakeFetcher{pairs: makePairs(20)}
	cache := newMemCache()
	rec := &recorder{}
	svc, err := NewService(ServiceConfig{
		Fetcher:   fetcher,
		Cache:     cache,
		Store:     rec,
		Publisher: rec,
		Logger:    quietLogger(),
		Now:       fixedNow,
	})
	require.NoError(t, err)
	ctx := context.Background()

	first, cached, err := svc.Trending(ctx, dexscreener.H6, 5)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Len(t, first.Entries, 5)

	// the whole page is cached, so a larger limit is still served from it
	second, cached, err := svc.Trending(ctx, dexscreener.H6, 15)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Len(t, second.Entries, 15)

	assert.Len(t, fetcher.calls, 1)
	assert.Len(t, rec.inserted, 1)
	assert.Len(t, rec.published, 1)
	assert.Len(t, rec.inserted[0].Entries, 20)
}

func TestService_Trending_SideStoreFailuresAreNotFatal(t *testing.T) {
	cache := newMemCache()
	cache.getErr = errors.New("redis down")
	cache.setErr = errors.New("redis down")
	rec := &recorder{err: errors.New("clickhouse down")}

	svc, err := NewService(ServiceConfig{
		Fetcher:   &fakeFetcher{pairs: makePairs(3)},
		Cache:     cache,
		Store:     rec,
		Publisher: rec,
		Logger:    quietLogger(),
	})
	require.NoError(t, err)

	snap, cached, err := svc.Trending(context.Background(), dexscreener.H1, 10)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Len(t, snap.Entries, 3)
	assert.Len(t, rec.inserted, 1)
	assert.Len(t, rec.published, 1)
}

func TestService_Trending_EmptyPage(t *testing.T) {
	svc, err := NewService(ServiceConfig{Fetcher: &fakeFetcher{pairs: []dexscreener.Pair{}}, Logger: quietLogger()})
	require.NoError(t, err)

	snap, _, err := svc.Trending(context.Background(), dexscreener.H24, 10)
	require.NoError(t, err)
	assert.NotNil(t, snap.Entries)
	assert.Empty(t, snap.Entries)
}
