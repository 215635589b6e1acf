// Package storage provides persistence drivers for alert records.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/raykavin/solscout/pkg/core"
	"github.com/tidwall/buntdb"
)

const (
	// DefaultIndexName is the default index used for alert retrieval
	DefaultIndexName = "alerted_index"
)

// BuntStorage implements the core.AlertStorage interface using BuntDB
type BuntStorage struct {
	lastID int64
	db     *buntdb.DB
}

// BuntConfig holds configuration options for BuntDB
type BuntConfig struct {
	// Additional indexes to create beyond the default alerted_index
	AdditionalIndexes map[string]string
	// SyncPolicy determines how often data is synchronized to disk
	SyncPolicy buntdb.SyncPolicy
}

// DefaultBuntConfig returns the default configuration for BuntDB
func DefaultBuntConfig() BuntConfig {
	return BuntConfig{
		AdditionalIndexes: make(map[string]string),
		SyncPolicy:        buntdb.EverySecond,
	}
}

// NewFromMemory creates an in-memory storage with default configuration
func NewFromMemory() (core.AlertStorage, error) {
	return NewBuntStorage(":memory:", DefaultBuntConfig())
}

// NewFromFile creates a file-based storage with default configuration
func NewFromFile(file string) (core.AlertStorage, error) {
	return NewBuntStorage(file, DefaultBuntConfig())
}

// NewBuntStorage creates a new BuntDB storage instance with the specified configuration
func NewBuntStorage(sourceFile string, config BuntConfig) (core.AlertStorage, error) {
	db, err := buntdb.Open(sourceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open buntdb: %w", err)
	}

	if err := db.SetConfig(buntdb.Config{
		SyncPolicy: config.SyncPolicy,
	}); err != nil {
		return nil, fmt.Errorf("failed to configure buntdb: %w", err)
	}

	// Default index orders alerts by the time they were sent
	if err := db.CreateIndex(DefaultIndexName, "*", buntdb.IndexJSON("alerted_at")); err != nil {
		return nil, fmt.Errorf("failed to create default index: %w", err)
	}

	for name, pattern := range config.AdditionalIndexes {
		if err := db.CreateIndex(name, "*", buntdb.IndexJSON(pattern)); err != nil {
			return nil, fmt.Errorf("failed to create index %s: %w", name, err)
		}
	}

	storage := &BuntStorage{db: db}
	if err := storage.restoreLastID(); err != nil {
		return nil, err
	}

	return storage, nil
}

// restoreLastID recovers the ID counter from existing records
func (b *BuntStorage) restoreLastID() error {
	return b.db.View(func(tx *buntdb.Tx) error {
		return tx.Ascend("", func(_, value string) bool {
			var alert core.Alert
			if err := json.Unmarshal([]byte(value), &alert); err == nil && alert.ID > b.lastID {
				b.lastID = alert.ID
			}
			return true
		})
	})
}

// getID generates a unique ID for alerts
func (b *BuntStorage) getID() int64 {
	return atomic.AddInt64(&b.lastID, 1)
}

// CreateAlert stores a new alert in the database, keyed by token address
func (b *BuntStorage) CreateAlert(_ context.Context, alert *core.Alert) error {
	return b.db.Update(func(tx *buntdb.Tx) error {
		if alert.ID == 0 {
			alert.ID = b.getID()
		}

		content, err := json.Marshal(alert)
		if err != nil {
			return fmt.Errorf("failed to marshal alert: %w", err)
		}

		_, _, err = tx.Set(alert.TokenAddress, string(content), nil)
		if err != nil {
			return fmt.Errorf("failed to store alert: %w", err)
		}

		return nil
	})
}

// HasAlert reports whether the token address was already alerted
func (b *BuntStorage) HasAlert(_ context.Context, tokenAddress string) (bool, error) {
	var found bool
	err := b.db.View(func(tx *buntdb.Tx) error {
		_, err := tx.Get(tokenAddress)
		if err == buntdb.ErrNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})

	if err != nil {
		return false, fmt.Errorf("failed to look up alert: %w", err)
	}

	return found, nil
}

// Alerts retrieves alerts from the database based on provided filters
func (b *BuntStorage) Alerts(_ context.Context, filters ...core.AlertFilter) ([]*core.Alert, error) {
	alerts := make([]*core.Alert, 0)

	err := b.db.View(func(tx *buntdb.Tx) error {
		err := tx.Ascend(DefaultIndexName, func(key, value string) bool {
			var alert core.Alert
			if err := json.Unmarshal([]byte(value), &alert); err != nil {
				return true // skip unreadable records, continue iteration
			}

			for _, filter := range filters {
				if !filter(alert) {
					return true
				}
			}

			alerts = append(alerts, &alert)
			return true
		})

		if err != nil {
			return fmt.Errorf("failed to iterate over alerts: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}

	return alerts, nil
}

// Close closes the database connection
func (b *BuntStorage) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

// FromMemory creates an in-memory storage (legacy function)
func FromMemory() (core.AlertStorage, error) {
	return NewFromMemory()
}

// FromFile creates a file-based storage (legacy function)
func FromFile(file string) (core.AlertStorage, error) {
	return NewFromFile(file)
}
