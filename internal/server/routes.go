package server

import (
	"net/http"
	"time"

	"github.com/aman-zulfiqar/meme-scout/internal/constants"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RegisterRoutes configures all API routes, middleware, and error handlers
func RegisterRoutes(e *echo.Echo, h *Handlers, cfg ServerConfig) {
	// Set custom error handler for consistent JSON responses
	e.HTTPErrorHandler = JSONErrorHandler(h.Logger)

	// Apply global middleware
	e.Use(SetJSONContentType) // Default to JSON; text handlers override
	e.Use(SetNoCacheHeaders)  // Prevent caching of API responses

	// Optional API key authentication
	if cfg.APIKey != "" {
		e.Use(middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
			KeyLookup: "header:X-API-Key", // Look for API key in X-API-Key header
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/v1/health" // Health stays open for probes
			},
			Validator: func(key string, c echo.Context) (bool, error) {
				return key == cfg.APIKey, nil // Simple string comparison
			},
		}))
	}

	// API v1 routes
	v1 := e.Group("/v1")
	v1.GET("/health", h.Health)         // Health check endpoint
	v1.GET("/timeframes", h.Timeframes) // Accepted timeframe values

	// Trending endpoints hit dexscreener.com on cache misses, so they are rate limited
	rl := cfg.RateLimit
	if rl <= 0 {
		rl = constants.DefaultAPIRateLimit
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = constants.DefaultAPIRateBurst
	}
	tgroup := v1.Group("/trending")
	tgroup.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(rl), // requests per second per client IP
		Burst:     burst,
		ExpiresIn: 2 * time.Minute,
	})))
	tgroup.GET("", h.TrendingJSON)                    // ?timeframe=h24&limit=10
	tgroup.GET("/:timeframe/lines", h.TrendingLines) // Plain-text CLI output

	// Catch-all route for 404 responses
	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found", Code: http.StatusNotFound})
	})
}
