package storage

import (
	"context"
	"errors"
	"io"

	"github.com/aman-zulfiqar/meme-scout/internal/models"
)

// ErrCacheMiss is returned by SnapshotCache.Get when no fresh snapshot exists.
var ErrCacheMiss = errors.New("snapshot not cached")

// SnapshotCache defines the interface for short-lived trending snapshots
type SnapshotCache interface {
	// GetSnapshot returns the cached snapshot for a timeframe or ErrCacheMiss
	GetSnapshot(ctx context.Context, timeframe string) (*models.Snapshot, error)

	// SetSnapshot stores the snapshot under its timeframe
	SetSnapshot(ctx context.Context, snapshot *models.Snapshot) error

	// Ping checks if the cache is reachable
	Ping(ctx context.Context) error

	// Close closes the cache connection
	io.Closer
}

// SnapshotStore defines the interface for persistent snapshot history
type SnapshotStore interface {
	// InsertSnapshot appends every entry of the snapshot
	InsertSnapshot(ctx context.Context, snapshot *models.Snapshot) error

	// Ping checks if the store is reachable
	Ping(ctx context.Context) error

	// Close closes the store connection
	io.Closer
}

// SnapshotPublisher fans snapshots out to live subscribers
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, snapshot *models.Snapshot) error
}

// SnapshotHandler is a function that processes received snapshots
type SnapshotHandler func(*models.Snapshot)
