package trending

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aman-zulfiqar/meme-scout/internal/constants"
	"github.com/aman-zulfiqar/meme-scout/internal/dexscreener"
	"github.com/aman-zulfiqar/meme-scout/internal/models"
	"github.com/gagliardetto/solana-go"
)

// Top returns the first n pairs in page order, or fewer if the page has fewer.
func Top(pairs []dexscreener.Pair, n int) []dexscreener.Pair {
	if n <= 0 {
		return nil
	}
	if len(pairs) < n {
		return pairs
	}
	return pairs[:n]
}

// Change returns the priceChange value for tf as printed, "0" when the page
// does not carry one.
func Change(p dexscreener.Pair, tf dexscreener.Timeframe) string {
	v := p.PriceChange[tf.String()]
	if v == "" {
		return "0"
	}
	return string(v)
}

// ValidSolanaAddress reports whether addr decodes to a 32-byte public key.
func ValidSolanaAddress(addr string) bool {
	_, err := solana.PublicKeyFromBase58(addr)
	return err == nil
}

// NewEntry converts the pair at page position rank (1-based) into an Entry.
func NewEntry(p dexscreener.Pair, tf dexscreener.Timeframe, rank int) models.Entry {
	e := models.Entry{
		Rank:        rank,
		Name:        p.BaseToken.Name,
		Symbol:      p.BaseToken.Symbol,
		ChainID:     p.ChainID,
		PriceUSD:    string(p.PriceUsd),
		ChangePct:   Change(p, tf),
		Address:     p.BaseToken.Address,
		PairAddress: p.PairAddress,
		URL:         p.URL,
	}
	if p.ChainID == constants.ChainSolana {
		ok := ValidSolanaAddress(p.BaseToken.Address)
		e.AddressValid = &ok
	}
	return e
}

// BuildEntries converts the first n pairs into entries.
func BuildEntries(pairs []dexscreener.Pair, tf dexscreener.Timeframe, n int) []models.Entry {
	top := Top(pairs, n)
	out := make([]models.Entry, 0, len(top))
	for i, p := range top {
		out = append(out, NewEntry(p, tf, i+1))
	}
	return out
}

// FormatLine renders "name | chain | $price | change% | address".
func FormatLine(e models.Entry) string {
	return strings.Join([]string{
		e.Name,
		e.ChainID,
		"$" + e.PriceUSD,
		e.ChangePct + "%",
		e.Address,
	}, " | ")
}

// WriteLines writes one FormatLine per entry.
func WriteLines(w io.Writer, entries []models.Entry) error {
	for _, e := range entries {
		if _, err := fmt.Fprintln(w, FormatLine(e)); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes the snapshot as indented JSON.
func WriteJSON(w io.Writer, s *models.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
