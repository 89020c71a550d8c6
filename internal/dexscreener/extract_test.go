package dexscreener

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fooPayload = `{"route":{"data":{"dexScreenerData":{"pairs":[{"baseToken":{"name":"FOO","address":"0xabc"},"chainId":"solana","priceUsd":"1.23","priceChange":{"h24":5}}]}}}}`

func page(script string) []byte {
	return []byte(`<!DOCTYPE html><html><head><title>DEX Screener</title></head><body>
<div id="root"></div>
<script>` + script + `</script>
<script src="/assets/index.js"></script>
</body></html>`)
}

func TestExtractServerData(t *testing.T) {
	data, err := ExtractServerData(page(`window.__SERVER_DATA = ` + fooPayload + `;`))
	require.NoError(t, err)

	pairs, err := data.Pairs()
	require.NoError(t, err)
	require.Len(t, pairs, 1)

	p := pairs[0]
	assert.Equal(t, "FOO", p.BaseToken.Name)
	assert.Equal(t, "0xabc", p.BaseToken.Address)
	assert.Equal(t, "solana", p.ChainID)
	assert.Equal(t, Text("1.23"), p.PriceUsd)
	assert.Equal(t, Text("5"), p.PriceChange["h24"])
}

func TestExtractServerData_NoWhitespaceAroundEquals(t *testing.T) {
	data, err := ExtractServerData(page(`window.__SERVER_DATA=` + fooPayload + `;window.__OTHER={};`))
	require.NoError(t, err)
	pairs, err := data.Pairs()
	require.NoError(t, err)
	assert.Len(t, pairs, 1)
}

func TestExtractServerData_TerminatorInsideString(t *testing.T) {
	body := page(`window.__SERVER_DATA = {"route":{"data":{"dexScreenerData":{"pairs":[{"baseToken":{"name":"};evil","address":"a"},"chainId":"base","priceUsd":"2","priceChange":{}}]}}}};`)

	data, err := ExtractServerData(body)
	require.NoError(t, err)
	pairs, err := data.Pairs()
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "};evil", pairs[0].BaseToken.Name)
}

func TestExtractServerData_MissingMarker(t *testing.T) {
	data, err := ExtractServerData(page(`window.__APP_STATE = {};`))
	assert.Nil(t, data)
	assert.True(t, errors.Is(err, ErrNoServerData))
}

func TestExtractServerData_MarkerIsLiteral(t *testing.T) {
	_, err := ExtractServerData(page(`windowX__SERVER_DATA = ` + fooPayload + `;`))
	assert.ErrorIs(t, err, ErrNoServerData)
}

func TestExtractServerData_MarkerWithoutObject(t *testing.T) {
	_, err := ExtractServerData(page(`window.__SERVER_DATA = null;`))
	assert.True(t, errors.Is(err, ErrNoServerData))
}

func TestExtractServerData_JSLiteral(t *testing.T) {
	tests := map[string]string{
		"date":        `"pairCreatedAt":new Date(1700000000000)`,
		"date string": `"pairCreatedAt":new Date("2024-01-01T00:00:00.000Z")`,
		"empty date":  `"pairCreatedAt":new Date()`,
		"url":         `"info":new URL("https://dexscreener.com/")`,
		"undefined":   `"labels":undefined`,
		"bare key":    `labels: [undefined, new  Date( 0 )]`,
	}
	for name, field := range tests {
		t.Run(name, func(t *testing.T) {
			payload := `{"route":{"data":{"dexScreenerData":{"pairs":[{` + field +
				`,"baseToken":{"name":"FOO","address":"0xabc"},"chainId":"solana","priceUsd":"1.23","priceChange":{"h24":5}}]}}}}`
			data, err := ExtractServerData(page(`window.__SERVER_DATA = ` + payload + `;`))
			require.NoError(t, err)

			pairs, err := data.Pairs()
			require.NoError(t, err)
			require.Len(t, pairs, 1)
			assert.Equal(t, "FOO", pairs[0].BaseToken.Name)
			assert.Equal(t, Text("5"), pairs[0].PriceChange["h24"])
		})
	}
}

func TestExtractServerData_JSLiteralValues(t *testing.T) {
	data, err := ExtractServerData(page(`window.__SERVER_DATA = {route:{data:{dexScreenerData:{pairs:[
		{url:new URL("https://dexscreener.com/solana/abc"),priceUsd:undefined,baseToken:{name:"new Date(1) undefined",address:"x"},priceChange:{h24:undefined}}
	]}}}};`))
	require.NoError(t, err)
	pairs, err := data.Pairs()
	require.NoError(t, err)
	require.Len(t, pairs, 1)

	p := pairs[0]
	assert.Equal(t, "https://dexscreener.com/solana/abc", p.URL)
	assert.Equal(t, Text(""), p.PriceUsd)
	assert.Equal(t, "new Date(1) undefined", p.BaseToken.Name, "strings are not rewritten")
	assert.Equal(t, Text(""), p.PriceChange["h24"])
}

func TestExtractServerData_Malformed(t *testing.T) {
	tests := map[string]string{
		"truncated":        `window.__SERVER_DATA = {"route":{"data":`,
		"unterminated":     `window.__SERVER_DATA = {"route":"abc`,
		"wrong types":      `window.__SERVER_DATA = {"route":{"data":{"dexScreenerData":{"pairs":{}}}}};`,
		"ill-typed date":   `window.__SERVER_DATA = {route: {data: new Date(0)}};`,
		"other ctor":       `window.__SERVER_DATA = {"route":new Map()};`,
		"function call":    `window.__SERVER_DATA = {"route":alert(1)};`,
		"two ctor args":    `window.__SERVER_DATA = {"route":{"t":new Date(2024, 1)}};`,
		"single quoted":    `window.__SERVER_DATA = {'route':{}};`,
		"unbalanced paren": `window.__SERVER_DATA = {"route":new Date(1};`,
	}
	for name, script := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ExtractServerData(page(script))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedPayload), err.Error())
			assert.False(t, errors.Is(err, ErrNoServerData))
		})
	}
}

func TestServerData_Pairs(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		data, err := ExtractServerData(page(`window.__SERVER_DATA = {"route":{"data":{"dexScreenerData":{"pairs":[]}}}};`))
		require.NoError(t, err)
		pairs, err := data.Pairs()
		require.NoError(t, err)
		assert.Empty(t, pairs)
	})

	missing := map[string]string{
		"no route":           `{}`,
		"no data":            `{"route":{}}`,
		"no dexScreenerData": `{"route":{"data":{}}}`,
		"no pairs":           `{"route":{"data":{"dexScreenerData":{}}}}`,
		"null pairs":         `{"route":{"data":{"dexScreenerData":{"pairs":null}}}}`,
	}
	for name, payload := range missing {
		t.Run(name, func(t *testing.T) {
			data, err := ExtractServerData(page(`window.__SERVER_DATA = ` + payload + `;`))
			require.NoError(t, err)
			_, err = data.Pairs()
			assert.ErrorIs(t, err, ErrMissingPairs)
		})
	}

	var nilData *ServerData
	_, err := nilData.Pairs()
	assert.ErrorIs(t, err, ErrMissingPairs)
}

func TestText_UnmarshalJSON(t *testing.T) {
	data, err := ExtractServerData(page(`window.__SERVER_DATA = {"route":{"data":{"dexScreenerData":{"pairs":[
		{"priceUsd":"0.00001234"},
		{"priceUsd":0.5},
		{"priceUsd":null},
		{}
	]}}}};`))
	require.NoError(t, err)
	pairs, err := data.Pairs()
	require.NoError(t, err)
	require.Len(t, pairs, 4)

	assert.Equal(t, Text("0.00001234"), pairs[0].PriceUsd)
	assert.Equal(t, Text("0.5"), pairs[1].PriceUsd)
	assert.Equal(t, Text(""), pairs[2].PriceUsd)
	assert.Equal(t, Text(""), pairs[3].PriceUsd)

	_, err = ExtractServerData(page(`window.__SERVER_DATA = {"route":{"data":{"dexScreenerData":{"pairs":[{"priceUsd":{"v":1}}]}}}};`))
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"5", "5"},
		{"5.10", "5.1"},
		{"1e2", "100"},
		{"-0", "0"},
		{"0.0", "0"},
		{"-3.20", "-3.2"},
		{"0.000001", "0.000001"},
		{"1e-7", "1e-7"},
		{"0.00000012345", "1.2345e-7"},
		{"1e21", "1e+21"},
		{"123456789012345678901", "123456789012345680000"},
		{"not a number", "not a number"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNumber(tt.in), tt.in)
	}
}
