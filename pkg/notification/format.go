package notification

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/raykavin/solscout/pkg/core"
)

// FormatAlertMessage renders the Markdown alert for a new coin.
func FormatAlertMessage(alert core.Alert) string {
	var sb strings.Builder

	if alert.ChainID != "" {
		fmt.Fprintf(&sb, "🚨 *New %s Coin Alert* 🚨\n", chainTitle(alert.ChainID))
	} else {
		sb.WriteString("🚨 *New Coin Alert* 🚨\n")
	}
	fmt.Fprintf(&sb, "Coin: %s\n", alert.CoinName)
	fmt.Fprintf(&sb, "Volume in the first hour: $%s\n", FormatAmount(alert.VolumeUSD))

	if alert.URL != "" {
		fmt.Fprintf(&sb, "Details: [View on DEX Screener](%s)", alert.URL)
	} else {
		sb.WriteString("Detected on DEX Screener.")
	}

	return sb.String()
}

// FormatAmount renders a USD amount with thousands separators, no decimals.
func FormatAmount(amount float64) string {
	raw := strconv.FormatFloat(amount, 'f', 0, 64)

	negative := strings.HasPrefix(raw, "-")
	if negative {
		raw = raw[1:]
	}

	var sb strings.Builder
	for i, digit := range raw {
		if i > 0 && (len(raw)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(digit)
	}

	if negative {
		return "-" + sb.String()
	}
	return sb.String()
}

// chainTitle capitalizes a chain id for display ("solana" -> "Solana")
func chainTitle(chainID string) string {
	return strings.ToUpper(chainID[:1]) + chainID[1:]
}
