package dexscreener

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aman-zulfiqar/meme-scout/internal/constants"
	"github.com/sirupsen/logrus"
)

// Client fetches DexScreener ranking pages. It does not retry.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *logrus.Logger
}

// ClientConfig holds configuration for the page client
type ClientConfig struct {
	BaseURL   string // defaults to https://dexscreener.com
	UserAgent string
	Timeout   time.Duration
	Logger    *logrus.Logger
}

// NewClient creates a page client. A zero Timeout falls back to the
// package default so that a stalled server cannot hang the caller forever.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = constants.DexScreenerBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = constants.DefaultHTTPTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = constants.DefaultUserAgent
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL:   baseURL,
		userAgent: cfg.UserAgent,
		logger:    cfg.Logger,
	}
}

// PageURL is the ranking page for tf on this client's base URL.
func (c *Client) PageURL(tf Timeframe) string {
	return c.baseURL + tf.Path()
}

// FetchPage downloads the ranking page for tf.
func (c *Client) FetchPage(ctx context.Context, tf Timeframe) ([]byte, error) {
	if !tf.Valid() {
		return nil, fmt.Errorf("%w %q", ErrUnknownTimeframe, string(tf))
	}

	u := c.PageURL(tf)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"url":     u,
		"status":  resp.StatusCode,
		"bytes":   len(body),
		"elapsed": time.Since(start),
	}).Debug("fetched trending page")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: body}
	}
	return body, nil
}

// FetchTrending downloads the page for tf and returns its pairs in page order.
func (c *Client) FetchTrending(ctx context.Context, tf Timeframe) ([]Pair, error) {
	body, err := c.FetchPage(ctx, tf)
	if err != nil {
		return nil, err
	}

	data, err := ExtractServerData(body)
	if err != nil {
		return nil, err
	}
	return data.Pairs()
}

// CloseIdleConnections releases pooled connections; used by short-lived callers.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}
