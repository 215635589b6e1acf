package screener

import (
	"strconv"
	"time"

	"github.com/raykavin/solscout/pkg/core"
)

// searchResponse mirrors the DEX Screener /latest/dex/search payload.
type searchResponse struct {
	SchemaVersion string    `json:"schemaVersion"`
	Pairs         []apiPair `json:"pairs"`
}

type apiPair struct {
	ChainID       string       `json:"chainId"`
	DexID         string       `json:"dexId"`
	URL           string       `json:"url"`
	PairAddress   string       `json:"pairAddress"`
	BaseToken     apiToken     `json:"baseToken"`
	QuoteToken    apiToken     `json:"quoteToken"`
	PriceUSD      string       `json:"priceUsd"`
	Volume        apiVolume    `json:"volume"`
	Liquidity     apiLiquidity `json:"liquidity"`
	PairCreatedAt int64        `json:"pairCreatedAt"`
}

type apiToken struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

type apiVolume struct {
	H24 float64 `json:"h24"`
	H6  float64 `json:"h6"`
	H1  float64 `json:"h1"`
	M5  float64 `json:"m5"`
}

type apiLiquidity struct {
	USD   float64 `json:"usd"`
	Base  float64 `json:"base"`
	Quote float64 `json:"quote"`
}

// toPair converts an API pair to the normalized core representation.
// The API reports priceUsd as a string and pairCreatedAt in unix
// milliseconds; both may be absent for fresh or exotic pairs.
func (p apiPair) toPair() core.Pair {
	price, _ := strconv.ParseFloat(p.PriceUSD, 64)

	var createdAt time.Time
	if p.PairCreatedAt > 0 {
		createdAt = time.UnixMilli(p.PairCreatedAt).UTC()
	}

	return core.Pair{
		ChainID:      p.ChainID,
		DexID:        p.DexID,
		Address:      p.PairAddress,
		URL:          p.URL,
		BaseToken:    core.Token(p.BaseToken),
		QuoteToken:   core.Token(p.QuoteToken),
		PriceUSD:     price,
		VolumeUSD24h: p.Volume.H24,
		LiquidityUSD: p.Liquidity.USD,
		CreatedAt:    createdAt,
	}
}
