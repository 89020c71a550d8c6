package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aman-zulfiqar/meme-scout/internal/constants"
	"github.com/aman-zulfiqar/meme-scout/internal/dexscreener"
	"github.com/aman-zulfiqar/meme-scout/internal/models"
	"github.com/aman-zulfiqar/meme-scout/internal/trending"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// TrendingSource is satisfied by *trending.Service
type TrendingSource interface {
	Trending(ctx context.Context, tf dexscreener.Timeframe, limit int) (*models.Snapshot, bool, error)
}

// Handlers contains all dependencies for API endpoint handlers
type Handlers struct {
	Trending     TrendingSource // Fetches (or serves cached) trending snapshots
	DefaultLimit int            // Items returned when no limit is given
	DevMode      bool           // Enable detailed error responses in development
	Logger       *logrus.Logger // Structured logger
}

// err returns a standardized JSON error response
// In dev mode, includes additional error details for debugging
func (h *Handlers) err(c echo.Context, code int, msg string, details any) error {
	resp := ErrorResponse{Error: msg, Code: code}
	if h.DevMode && details != nil {
		resp.Details = details
	}
	return c.JSON(code, resp)
}

// withTimeout creates a context with timeout, defaulting to 10 seconds if duration <= 0
func (h *Handlers) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = 10 * time.Second
	}
	return context.WithTimeout(ctx, d)
}

// Health returns a simple health check endpoint
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{OK: true})
}

// Timeframes lists the accepted timeframe values
func (h *Handlers) Timeframes(c echo.Context) error {
	items := make([]string, 0, 4)
	for _, tf := range dexscreener.Timeframes() {
		items = append(items, tf.String())
	}
	return c.JSON(http.StatusOK, TimeframesResponse{Items: items, Default: dexscreener.DefaultTimeframe.String()})
}

// TrendingJSON returns the trending list for ?timeframe= (default h24)
// Accepts limit query parameter (default: DefaultLimit, range: 1-100)
func (h *Handlers) TrendingJSON(c echo.Context) error {
	snap, cached, apiErr := h.load(c, c.QueryParam("timeframe"))
	if apiErr != nil {
		return h.err(c, apiErr.code, apiErr.msg, apiErr.details)
	}
	return c.JSON(http.StatusOK, TrendingResponse{
		Timeframe: snap.Timeframe,
		FetchedAt: snap.FetchedAt,
		Cached:    cached,
		Items:     snap.Entries,
	})
}

// TrendingLines returns the same list as plain text, one pipe-separated line per pair
func (h *Handlers) TrendingLines(c echo.Context) error {
	snap, _, apiErr := h.load(c, c.Param("timeframe"))
	if apiErr != nil {
		return h.err(c, apiErr.code, apiErr.msg, apiErr.details)
	}

	var b strings.Builder
	if err := trending.WriteLines(&b, snap.Entries); err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to render lines", nil)
	}
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextPlainCharsetUTF8)
	return c.String(http.StatusOK, b.String())
}

// apiError is a failed request that has not been written yet
type apiError struct {
	code    int
	msg     string
	details any
}

// load parses timeframe and limit, then asks the trending source.
func (h *Handlers) load(c echo.Context, rawTimeframe string) (*models.Snapshot, bool, *apiError) {
	tf, err := dexscreener.ParseTimeframe(rawTimeframe)
	if err != nil {
		return nil, false, &apiError{http.StatusBadRequest, "invalid timeframe", map[string]any{"timeframe": "must be m5, h1, h6 or h24"}}
	}

	limit := h.DefaultLimit
	if limit <= 0 {
		limit = constants.DefaultTrendingLimit
	}
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil {
			return nil, false, &apiError{http.StatusBadRequest, "invalid limit", map[string]any{"limit": "must be an integer"}}
		}
		limit = n
	}
	if limit < 1 || limit > constants.MaxTrendingLimit {
		return nil, false, &apiError{http.StatusBadRequest, "invalid limit", map[string]any{"limit": "min 1 max 100"}}
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 45*time.Second)
	defer cancel()

	snap, cached, err := h.Trending.Trending(ctx, tf, limit)
	if err == nil {
		return snap, cached, nil
	}

	h.Logger.WithError(err).WithField("timeframe", tf.String()).Warn("trending fetch failed")

	var httpErr *dexscreener.HTTPError
	switch {
	case errors.Is(err, dexscreener.ErrNoServerData):
		return nil, false, &apiError{http.StatusBadGateway, "no data found", nil}
	case errors.As(err, &httpErr):
		return nil, false, &apiError{http.StatusBadGateway, "upstream error", map[string]any{"status": httpErr.StatusCode}}
	case errors.Is(err, context.DeadlineExceeded):
		return nil, false, &apiError{http.StatusGatewayTimeout, "upstream timeout", nil}
	default:
		return nil, false, &apiError{http.StatusBadGateway, "failed to fetch trending", map[string]any{"err": err.Error()}}
	}
}
