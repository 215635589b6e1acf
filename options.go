package solscout

import (
	"github.com/raykavin/solscout/pkg/core"
	"github.com/raykavin/solscout/pkg/logger"
)

// Option is a functional option for configuring a Scout instance
type Option func(*Scout)

// WithStorage sets the alert storage, by default a local file called solscout.db
func WithStorage(storage core.AlertStorage) Option {
	return func(scout *Scout) {
		scout.storage = storage
	}
}

// WithNotifier registers a custom notifier, replacing the Telegram default
func WithNotifier(notifier core.Notifier) Option {
	return func(scout *Scout) {
		scout.notifier = notifier
	}
}

// WithScreener sets the screener client, mainly for tests
func WithScreener(screener core.Screener) Option {
	return func(scout *Scout) {
		scout.screener = screener
	}
}

// WithLogger overrides the default logger
func WithLogger(log logger.Logger) Option {
	return func(scout *Scout) {
		scout.log = log
	}
}
