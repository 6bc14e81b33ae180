package testutil

import (
	"context"
	"testing"

	"teacher_registry/internal/infra/database"

	"gorm.io/gorm"
)

// Session begins a transaction on db and returns the handle bound to it.
// The transaction is rolled back when the test (or subtest) finishes, whatever the
// code under test committed through the handle.
func Session(t *testing.T, db *gorm.DB) *gorm.DB {
	t.Helper()

	s, err := database.BeginSession(context.Background(), db)
	if err != nil {
		t.Fatalf("failed to begin test session: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("failed to roll back test session: %v", err)
		}
	})
	return s.DB()
}
