package core

import "time"

// Settings represents the main configuration for the application
type Settings struct {
	ChainID      string           // Chain watched for new pairs (e.g. "solana")
	Query        string           // Screener search query, defaults to the chain id
	ScanInterval time.Duration    // How often the screener is polled
	MaxPairAge   time.Duration    // Oldest pair creation age still worth alerting
	MinVolumeUSD float64          // 24h volume threshold in USD
	HTTPPort     int              // Status API listen port, 0 disables the server
	Telegram     TelegramSettings // Telegram notification settings
	Mail         MailSettings     // Optional SMTP alert channel
}

// TelegramSettings holds configuration for Telegram integration
type TelegramSettings struct {
	Enabled bool   // Whether Telegram notifications are enabled
	Token   string // Telegram bot token
	ChatID  int64  // Chat or group that receives alerts
}

// MailSettings holds configuration for the SMTP alert channel
type MailSettings struct {
	Enabled  bool   // Whether alerts are also sent by email
	SMTPHost string // SMTP server address
	SMTPPort int    // SMTP server port
	To       string // Recipient address
	From     string // Sender address, also used for authentication
	Password string // SMTP password
}
