package dexscreener

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ServerData is the subset of window.__SERVER_DATA that the scout reads.
type ServerData struct {
	Route *Route `json:"route"`
}

type Route struct {
	Data *RouteData `json:"data"`
}

type RouteData struct {
	DexScreenerData *PageData `json:"dexScreenerData"`
}

type PageData struct {
	Pairs []Pair `json:"pairs"`
}

// Pair is one trading pair row of the trending table.
type Pair struct {
	ChainID     string          `json:"chainId"`
	DexID       string          `json:"dexId"`
	URL         string          `json:"url"`
	PairAddress string          `json:"pairAddress"`
	BaseToken   Token           `json:"baseToken"`
	QuoteToken  Token           `json:"quoteToken"`
	PriceUsd    Text            `json:"priceUsd"`
	PriceChange map[string]Text `json:"priceChange"` // keyed by timeframe: m5, h1, h6, h24
}

type Token struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

// Text holds a scalar that the page sends either as a string or as a bare
// number. Strings are kept as sent; numbers are spelled the way a browser
// prints them (5.10 -> 5.1, 1e2 -> 100, -0 -> 0).
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*t = Text(FormatNumber(n.String()))
	return nil
}

// FormatNumber respells a JSON number in JavaScript's Number#toString form:
// shortest round-trip digits, plain notation from 1e-6 up to 1e21 and
// exponent notation outside that range. Input that is not a float is returned as is.
func FormatNumber(raw string) string {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	if f == 0 {
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Pairs walks route.data.dexScreenerData.pairs. An empty list is valid; a
// missing one is ErrMissingPairs.
func (d *ServerData) Pairs() ([]Pair, error) {
	if d == nil || d.Route == nil || d.Route.Data == nil ||
		d.Route.Data.DexScreenerData == nil || d.Route.Data.DexScreenerData.Pairs == nil {
		return nil, ErrMissingPairs
	}
	return d.Route.Data.DexScreenerData.Pairs, nil
}
