package cache

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/aman-zulfiqar/meme-scout/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// CreateSnapshotsTable is the schema InsertSnapshot writes to.
const CreateSnapshotsTable = `
	CREATE TABLE IF NOT EXISTS trending_snapshots (
		fetched_at   DateTime64(3, 'UTC'),
		timeframe    LowCardinality(String),
		rank         UInt16,
		name         String,
		symbol       String,
		chain_id     LowCardinality(String),
		price_usd    Decimal(38, 18),
		change_pct   Float64,
		address      String,
		pair_address String
	) ENGINE = MergeTree
	ORDER BY (timeframe, fetched_at, rank)
`

type ClickHouseConfig struct {
	Addr     string
	Database string
	Username string
	Password string
	Logger   *logrus.Logger
}

type ClickHouseStore struct {
	conn   driver.Conn
	logger *logrus.Logger
}

func NewClickHouseStore(ctx context.Context, cfg ClickHouseConfig) (*ClickHouseStore, error) {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}
	if err := conn.Exec(ctx, CreateSnapshotsTable); err != nil {
		return nil, fmt.Errorf("failed to create trending_snapshots: %w", err)
	}

	cfg.Logger.WithFields(logrus.Fields{
		"addr":     cfg.Addr,
		"database": cfg.Database,
	}).Info("connected to ClickHouse")

	return &ClickHouseStore{conn: conn, logger: cfg.Logger}, nil
}

// InsertSnapshot writes every entry of the snapshot in a single batch.
func (c *ClickHouseStore) InsertSnapshot(ctx context.Context, s *models.Snapshot) error {
	if len(s.Entries) == 0 {
		return nil
	}

	batch, err := c.conn.PrepareBatch(ctx, `
		INSERT INTO trending_snapshots (
			fetched_at, timeframe, rank, name, symbol, chain_id,
			price_usd, change_pct, address, pair_address
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare snapshot batch: %w", err)
	}

	for _, e := range s.Entries {
		if err := batch.Append(
			s.FetchedAt,
			s.Timeframe,
			uint16(e.Rank),
			e.Name,
			e.Symbol,
			e.ChainID,
			PriceDecimal(e.PriceUSD),
			ChangeFloat(e.ChangePct),
			e.Address,
			e.PairAddress,
		); err != nil {
			return fmt.Errorf("failed to append entry %d: %w", e.Rank, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	return nil
}

func (c *ClickHouseStore) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

func (c *ClickHouseStore) Close() error {
	return c.conn.Close()
}

// PriceDecimal parses the page's price text; unparseable prices store as zero.
func PriceDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ChangeFloat parses a price change percentage; unparseable values store as zero.
func ChangeFloat(s string) float64 {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}
