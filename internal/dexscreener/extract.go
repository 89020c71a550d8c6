package dexscreener

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/aman-zulfiqar/meme-scout/internal/constants"
)

// serverDataRe finds the opening brace of the inline assignment.
var serverDataRe = regexp.MustCompile(regexp.QuoteMeta(constants.ServerDataMarker) + `\s*=\s*\{`)

// ExtractServerData locates the window.__SERVER_DATA assignment in an HTML
// page and decodes the object literal that follows it. The literal is first
// rewritten to JSON by normalizeLiteral, which stops at the matching closing
// brace, so the trailing ";" and the rest of the script are never looked at.
func ExtractServerData(body []byte) (*ServerData, error) {
	loc := serverDataRe.FindIndex(body)
	if loc == nil {
		return nil, ErrNoServerData
	}

	literal, err := normalizeLiteral(body[loc[1]-1:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	var out ServerData
	if err := json.Unmarshal(literal, &out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	return &out, nil
}
