package dexscreener

import (
	"fmt"
	"strings"

	"github.com/aman-zulfiqar/meme-scout/internal/constants"
)

// Timeframe selects both the ranking page and the priceChange field that is reported.
type Timeframe string

const (
	M5  Timeframe = "m5"
	H1  Timeframe = "h1"
	H6  Timeframe = "h6"
	H24 Timeframe = "h24"
)

// DefaultTimeframe is used when no timeframe is given.
const DefaultTimeframe = H24

var trendingPaths = map[Timeframe]string{
	M5:  constants.TrendingPathM5,
	H1:  constants.TrendingPathH1,
	H6:  constants.TrendingPathH6,
	H24: constants.TrendingPathH24,
}

// Timeframes returns the known timeframes, shortest first.
func Timeframes() []Timeframe {
	return []Timeframe{M5, H1, H6, H24}
}

// ParseTimeframe maps CLI/query input to a Timeframe. Empty input selects
// DefaultTimeframe; anything unknown is rejected rather than guessed.
func ParseTimeframe(s string) (Timeframe, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultTimeframe, nil
	}
	tf := Timeframe(s)
	if !tf.Valid() {
		return "", fmt.Errorf("%w %q (use m5, h1, h6 or h24)", ErrUnknownTimeframe, s)
	}
	return tf, nil
}

func (tf Timeframe) Valid() bool {
	_, ok := trendingPaths[tf]
	return ok
}

// Path is the path and query of the ranking page, relative to the site root.
func (tf Timeframe) Path() string {
	return trendingPaths[tf]
}

// URL is the fixed public page for the timeframe.
func (tf Timeframe) URL() string {
	return constants.DexScreenerBaseURL + tf.Path()
}

func (tf Timeframe) String() string {
	return string(tf)
}
