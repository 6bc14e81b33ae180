package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Session is a GORM handle bound to one open transaction.
// Everything done through DB() is discarded by Close unless it was committed elsewhere,
// which makes a Session the unit of isolation for tests and dry runs.
type Session struct {
	tx     *gorm.DB
	closed bool
}

// BeginSession pins a pooled connection and opens a transaction on it.
func BeginSession(ctx context.Context, db *gorm.DB) (*Session, error) {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin session transaction: %w", tx.Error)
	}
	return &Session{tx: tx}, nil
}

// DB returns the transaction-bound handle. Repository writes made through it become savepoints.
func (s *Session) DB() *gorm.DB {
	return s.tx
}

// Close rolls the transaction back unconditionally and releases the connection.
// Safe to call multiple times.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.tx.Rollback().Error; err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("failed to roll back session: %w", err)
	}
	return nil
}
