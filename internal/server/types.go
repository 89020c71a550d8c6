package server

import (
	"time"

	"github.com/aman-zulfiqar/meme-scout/internal/models"
)

// ErrorResponse represents a standardized error response format
type ErrorResponse struct {
	Error   string `json:"error"`             // Human-readable error message
	Code    int    `json:"code"`              // HTTP status code
	Details any    `json:"details,omitempty"` // Additional error details (dev mode only)
}

// HealthResponse represents the health check response
type HealthResponse struct {
	OK bool `json:"ok"` // Service health status
}

// TrendingResponse is the JSON body of GET /v1/trending
type TrendingResponse struct {
	Timeframe string         `json:"timeframe"`  // m5 | h1 | h6 | h24
	FetchedAt time.Time      `json:"fetched_at"` // When the page was fetched
	Cached    bool           `json:"cached"`     // Served from the Redis snapshot cache
	Items     []models.Entry `json:"items"`      // Page order, at most limit items
}

// TimeframesResponse lists the accepted timeframe values
type TimeframesResponse struct {
	Items   []string `json:"items"`
	Default string   `json:"default"`
}
