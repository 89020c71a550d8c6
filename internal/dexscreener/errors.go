package dexscreener

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownTimeframe = errors.New("unknown timeframe")
	ErrNoServerData     = errors.New("no __SERVER_DATA found")
	ErrMalformedPayload = errors.New("malformed __SERVER_DATA payload")
	ErrMissingPairs     = errors.New("payload has no route.data.dexScreenerData.pairs")
)

// maxErrorBody bounds how much of an error page ends up in HTTPError.Error.
const maxErrorBody = 256

type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	b := strings.TrimSpace(string(e.Body))
	if b == "" {
		return fmt.Sprintf("dexscreener http %d", e.StatusCode)
	}
	if len(b) > maxErrorBody {
		b = b[:maxErrorBody] + "..."
	}
	return fmt.Sprintf("dexscreener http %d: %s", e.StatusCode, b)
}
