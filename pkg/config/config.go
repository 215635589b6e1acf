// Package config handles application configuration management using Viper
package config

import (
	"errors"
	"fmt"

	"github.com/raykavin/solscout/pkg/core"
	"github.com/spf13/viper"
	str2duration "github.com/xhit/go-str2duration/v2"
)

// Default configuration values
const (
	DefaultChainID      = "solana"
	DefaultScanInterval = "15m"
	DefaultMaxPairAge   = "1h"
	DefaultMinVolumeUSD = 500_000.0
	DefaultStoragePath  = "./solscout.db"
	DefaultHTTPPort     = 8000
	DefaultMailSMTPPort = 587
)

// Storage driver names accepted in STORAGE_DRIVER
const (
	DriverBuntDB = "buntdb"
	DriverSQLite = "sqlite"
)

var (
	ErrMissingTelegramSecrets = errors.New("TELEGRAM_TOKEN and CHAT_ID are required when telegram is enabled")
	ErrMissingMailSettings    = errors.New("MAIL_SMTP_HOST, MAIL_TO and MAIL_FROM are required when mail is enabled")
)

// AppConfig holds the application configuration
type AppConfig struct {
	Settings      core.Settings
	StoragePath   string
	StorageDriver string
}

// Load reads the application configuration from environment variables
func Load() (*AppConfig, error) {
	viper.AutomaticEnv()

	viper.SetDefault("CHAIN_ID", DefaultChainID)
	viper.SetDefault("SCAN_INTERVAL", DefaultScanInterval)
	viper.SetDefault("MAX_PAIR_AGE", DefaultMaxPairAge)
	viper.SetDefault("MIN_VOLUME_USD", DefaultMinVolumeUSD)
	viper.SetDefault("STORAGE_PATH", DefaultStoragePath)
	viper.SetDefault("STORAGE_DRIVER", DriverBuntDB)
	viper.SetDefault("HTTP_PORT", DefaultHTTPPort)
	viper.SetDefault("TELEGRAM_ENABLED", true)
	viper.SetDefault("MAIL_ENABLED", false)
	viper.SetDefault("MAIL_SMTP_PORT", DefaultMailSMTPPort)

	scanInterval, err := str2duration.ParseDuration(viper.GetString("SCAN_INTERVAL"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCAN_INTERVAL: %w", err)
	}

	maxPairAge, err := str2duration.ParseDuration(viper.GetString("MAX_PAIR_AGE"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_PAIR_AGE: %w", err)
	}

	chainID := viper.GetString("CHAIN_ID")
	query := viper.GetString("SEARCH_QUERY")
	if query == "" {
		query = chainID
	}

	cfg := &AppConfig{
		Settings: core.Settings{
			ChainID:      chainID,
			Query:        query,
			ScanInterval: scanInterval,
			MaxPairAge:   maxPairAge,
			MinVolumeUSD: viper.GetFloat64("MIN_VOLUME_USD"),
			HTTPPort:     viper.GetInt("HTTP_PORT"),
			Telegram: core.TelegramSettings{
				Enabled: viper.GetBool("TELEGRAM_ENABLED"),
				Token:   viper.GetString("TELEGRAM_TOKEN"),
				ChatID:  viper.GetInt64("CHAT_ID"),
			},
			Mail: core.MailSettings{
				Enabled:  viper.GetBool("MAIL_ENABLED"),
				SMTPHost: viper.GetString("MAIL_SMTP_HOST"),
				SMTPPort: viper.GetInt("MAIL_SMTP_PORT"),
				To:       viper.GetString("MAIL_TO"),
				From:     viper.GetString("MAIL_FROM"),
				Password: viper.GetString("MAIL_PASSWORD"),
			},
		},
		StoragePath:   viper.GetString("STORAGE_PATH"),
		StorageDriver: viper.GetString("STORAGE_DRIVER"),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *AppConfig) error {
	if cfg.Settings.Telegram.Enabled {
		if cfg.Settings.Telegram.Token == "" || cfg.Settings.Telegram.ChatID == 0 {
			return ErrMissingTelegramSecrets
		}
	}

	if cfg.Settings.Mail.Enabled {
		mail := cfg.Settings.Mail
		if mail.SMTPHost == "" || mail.To == "" || mail.From == "" {
			return ErrMissingMailSettings
		}
	}

	if cfg.StorageDriver != DriverBuntDB && cfg.StorageDriver != DriverSQLite {
		return fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.Settings.ScanInterval <= 0 {
		return errors.New("SCAN_INTERVAL must be positive")
	}

	return nil
}

// RedactToken shortens a secret for log output, keeping a 4 char prefix.
func RedactToken(token string) string {
	if len(token) <= 4 {
		return "****"
	}
	return token[:4] + "..."
}
