package core

import (
	"fmt"
	"time"
)

// Alert is the persisted record of a coin the bot has already announced.
type Alert struct {
	ID           int64     `db:"id" json:"id" gorm:"primaryKey;autoIncrement"`
	CoinName     string    `db:"coin_name" json:"coin_name"`
	Symbol       string    `db:"symbol" json:"symbol"`
	TokenAddress string    `db:"token_address" json:"token_address" gorm:"index"`
	PairAddress  string    `db:"pair_address" json:"pair_address"`
	ChainID      string    `db:"chain_id" json:"chain_id"`
	URL          string    `db:"url" json:"url"`
	PriceUSD     float64   `db:"price_usd" json:"price_usd"`
	VolumeUSD    float64   `db:"volume_usd" json:"volume_usd"`
	PairCreated  time.Time `db:"pair_created" json:"pair_created"`
	AlertedAt    time.Time `db:"alerted_at" json:"alerted_at"`
}

func (a Alert) String() string {
	return fmt.Sprintf("%s (%s) volume %.0f USD", a.CoinName, a.Symbol, a.VolumeUSD)
}

// NewAlert builds an alert record from a screener pair.
func NewAlert(pair Pair, alertedAt time.Time) Alert {
	return Alert{
		CoinName:     pair.BaseToken.Name,
		Symbol:       pair.BaseToken.Symbol,
		TokenAddress: pair.BaseToken.Address,
		PairAddress:  pair.Address,
		ChainID:      pair.ChainID,
		URL:          pair.URL,
		PriceUSD:     pair.PriceUSD,
		VolumeUSD:    pair.VolumeUSD24h,
		PairCreated:  pair.CreatedAt,
		AlertedAt:    alertedAt,
	}
}
