package core

import (
	"context"
	"time"
)

// AlertFilter selects alerts during storage queries.
type AlertFilter func(Alert) bool

// AlertStorage defines the interface for alert persistence
type AlertStorage interface {
	// CreateAlert stores a new alert record
	CreateAlert(ctx context.Context, alert *Alert) error

	// HasAlert reports whether the token address was already alerted
	HasAlert(ctx context.Context, tokenAddress string) (bool, error)

	// Alerts retrieves alerts based on provided filters, oldest first
	Alerts(ctx context.Context, filters ...AlertFilter) ([]*Alert, error)

	Close() error
}

func WithChain(chainID string) AlertFilter {
	return func(alert Alert) bool {
		return alert.ChainID == chainID
	}
}

func WithToken(address string) AlertFilter {
	return func(alert Alert) bool {
		return alert.TokenAddress == address
	}
}

func WithAlertedAfter(after time.Time) AlertFilter {
	return func(alert Alert) bool {
		return alert.AlertedAt.After(after)
	}
}
