package notification

import (
	"testing"
	"time"

	"github.com/raykavin/solscout/pkg/core"
	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0", FormatAmount(0))
	assert.Equal(t, "512", FormatAmount(512))
	assert.Equal(t, "500,000", FormatAmount(500_000))
	assert.Equal(t, "1,234,568", FormatAmount(1_234_567.89))
	assert.Equal(t, "-42,000", FormatAmount(-42_000))
}

func TestFormatAlertMessage(t *testing.T) {
	alert := core.Alert{
		CoinName:  "Moon Coin",
		Symbol:    "MOON",
		ChainID:   "solana",
		URL:       "https://dexscreener.com/solana/abc",
		VolumeUSD: 750_000,
		AlertedAt: time.Now(),
	}

	message := FormatAlertMessage(alert)
	assert.Contains(t, message, "🚨 *New Solana Coin Alert* 🚨")
	assert.Contains(t, message, "Coin: Moon Coin")
	assert.Contains(t, message, "$750,000")
	assert.Contains(t, message, "[View on DEX Screener](https://dexscreener.com/solana/abc)")
}

func TestFormatAlertMessageWithoutURL(t *testing.T) {
	alert := core.Alert{CoinName: "Moon Coin", ChainID: "solana", VolumeUSD: 600_000}

	message := FormatAlertMessage(alert)
	assert.Contains(t, message, "Detected on DEX Screener.")
	assert.NotContains(t, message, "View on DEX Screener")
}
