package core

import "context"

// Screener provides access to a DEX aggregator search API.
type Screener interface {
	// Search returns the pairs currently matching the query, newest data first.
	Search(ctx context.Context, query string) ([]Pair, error)
}

type Notifier interface {
	Notify(string)
	// OnAlert announces a new coin. The error tells the caller whether
	// delivery succeeded; undelivered alerts are retried on the next scan.
	OnAlert(alert Alert) error
	OnError(err error)
}

type NotifierWithStart interface {
	Notifier
	Start()
}

// BotInfo describes the identity of the notification bot and its target chat.
type BotInfo struct {
	Name     string `json:"bot_name"`
	Username string `json:"bot_username"`
	ChatID   string `json:"chat_id"`
	ChatType string `json:"chat_type"`
	ChatName string `json:"chat_title"`
}

// Identifier is implemented by notifiers that can describe themselves.
type Identifier interface {
	Info() (BotInfo, error)
}
