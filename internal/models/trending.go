// ============================================================================
// models/trending.go
// ============================================================================
package models

import "time"

// Entry is one printed row of the trending list.
type Entry struct {
	Rank         int    `json:"rank"` // 1-based position on the page
	Name         string `json:"name"`
	Symbol       string `json:"symbol,omitempty"`
	ChainID      string `json:"chain_id"`
	PriceUSD     string `json:"price_usd"`  // verbatim from the page
	ChangePct    string `json:"change_pct"` // price change for the snapshot timeframe, "0" when absent
	Address      string `json:"address"`
	PairAddress  string `json:"pair_address,omitempty"`
	URL          string `json:"url,omitempty"`
	AddressValid *bool  `json:"address_valid,omitempty"` // set for solana pairs only
}

// Snapshot is the trending list for one timeframe at one point in time.
type Snapshot struct {
	Timeframe string    `json:"timeframe"`
	FetchedAt time.Time `json:"fetched_at"`
	Entries   []Entry   `json:"entries"`
}

// Limit returns a copy of s holding at most n entries.
func (s *Snapshot) Limit(n int) *Snapshot {
	out := *s
	if n < 0 {
		n = 0
	}
	if n < len(s.Entries) {
		out.Entries = s.Entries[:n]
	}
	return &out
}
