package constants

import "time"

// DexScreener front page, ranked per timeframe
const (
	DexScreenerBaseURL = "https://dexscreener.com"

	TrendingPathM5  = "/?rankBy=trendingScoreM5&order=desc"
	TrendingPathH1  = "/?rankBy=trendingScoreH1&order=desc"
	TrendingPathH6  = "/"
	TrendingPathH24 = "/?rankBy=trendingScoreH24&order=desc"
)

// ServerDataMarker is the inline script assignment carrying the page payload.
const ServerDataMarker = "window.__SERVER_DATA"

// Redis keys
const (
	RedisKeyTrendingPrefix = "trending:snapshot:"
)

// Redis Pub/Sub channels
const (
	PubSubChannelTrendingPrefix = "trending:"
	PubSubPatternTrending       = "trending:*"
)

// Limits
const (
	DefaultTrendingLimit = 10
	MaxTrendingLimit     = 100
)

// API rate limit on the trending routes
const (
	DefaultAPIRateLimit = 1.0
	DefaultAPIRateBurst = 5
)

// HTTP
const (
	DefaultHTTPTimeout = 30 * time.Second
	DefaultUserAgent   = "Mozilla/5.0 (compatible; meme-scout/1.0)"
	DefaultCacheTTL    = 30 * time.Second
)

// ChainSolana is the DexScreener chainId for Solana pairs.
const ChainSolana = "solana"
