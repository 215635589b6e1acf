package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/raykavin/solscout/pkg/core"
	"github.com/samber/lo"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SQLStorage implements the core.AlertStorage interface using a SQL database via GORM
type SQLStorage struct {
	db *gorm.DB
}

// Config holds the configuration for SQL database connections
type Config struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns a default configuration for SQL connections
func DefaultConfig() Config {
	return Config{
		MaxIdleConns:    5,
		MaxOpenConns:    10,
		ConnMaxLifetime: time.Hour,
	}
}

// NewFromSQLite creates a new SQLite storage instance
func NewFromSQLite(dbPath string, config Config, opts ...gorm.Option) (core.AlertStorage, error) {
	dialect := sqlite.Open(dbPath)
	return newFromSQL(dialect, config, opts...)
}

// newFromSQL creates a new SQL storage instance with the specified configuration
func newFromSQL(dialect gorm.Dialector, config Config, opts ...gorm.Option) (core.AlertStorage, error) {
	db, err := gorm.Open(dialect, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)

	if err = db.AutoMigrate(&core.Alert{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLStorage{db: db}, nil
}

// CreateAlert creates a new alert record in the SQL database
func (s *SQLStorage) CreateAlert(ctx context.Context, alert *core.Alert) error {
	tx := s.db.WithContext(ctx)
	if result := tx.Create(alert); result.Error != nil {
		return fmt.Errorf("failed to create alert: %w", result.Error)
	}
	return nil
}

// HasAlert reports whether the token address was already alerted
func (s *SQLStorage) HasAlert(ctx context.Context, tokenAddress string) (bool, error) {
	tx := s.db.WithContext(ctx)

	var alert core.Alert
	result := tx.Where("token_address = ?", tokenAddress).First(&alert)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up alert: %w", result.Error)
	}

	return true, nil
}

// Alerts retrieves alerts based on provided filters, oldest first
func (s *SQLStorage) Alerts(ctx context.Context, filters ...core.AlertFilter) ([]*core.Alert, error) {
	tx := s.db.WithContext(ctx)

	var alerts []*core.Alert
	if result := tx.Order("alerted_at asc").Find(&alerts); result.Error != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", result.Error)
	}

	// Filters run in-process so both drivers share the same semantics
	return lo.Filter(alerts, func(alert *core.Alert, _ int) bool {
		for _, filter := range filters {
			if !filter(*alert) {
				return false
			}
		}
		return true
	}), nil
}

// Close closes the underlying database connection
func (s *SQLStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
