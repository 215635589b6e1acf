package core

import "time"

// Token identifies a token on a chain.
type Token struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

// Pair is a normalized DEX trading pair as reported by the screener.
type Pair struct {
	ChainID      string    `json:"chain_id"`
	DexID        string    `json:"dex_id"`
	Address      string    `json:"address"`
	URL          string    `json:"url"`
	BaseToken    Token     `json:"base_token"`
	QuoteToken   Token     `json:"quote_token"`
	PriceUSD     float64   `json:"price_usd"`
	VolumeUSD24h float64   `json:"volume_usd_24h"`
	LiquidityUSD float64   `json:"liquidity_usd"`
	CreatedAt    time.Time `json:"created_at"`
}

// Age returns how long ago the pair was created, relative to now.
// Pairs without a known creation time report a negative age. A creation
// time slightly ahead of now (clock skew between the API and this host)
// clamps to zero so brand-new pairs are not skipped.
func (p Pair) Age(now time.Time) time.Duration {
	if p.CreatedAt.IsZero() {
		return -1
	}

	age := now.Sub(p.CreatedAt)
	if age < 0 {
		return 0
	}
	return age
}
