package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"teacher_registry/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// EnvTestDatabaseURL points the tests at a real database instead of a temporary SQLite file.
const EnvTestDatabaseURL = "TEACHER_TEST_DATABASE_URL"

const connectTimeout = 10 * time.Second

// Database is a migrated test database and the pool opened on it.
type Database struct {
	URL string
	DB  *gorm.DB
}

// NewDatabase opens and migrates the database named by TEACHER_TEST_DATABASE_URL, or a fresh
// SQLite file under t.TempDir() when the variable is unset. The pool is closed on cleanup.
func NewDatabase(t *testing.T) *Database {
	t.Helper()

	url := os.Getenv(EnvTestDatabaseURL)
	if url == "" {
		url = "sqlite://" + filepath.Join(t.TempDir(), "teacher_test.db")
	}

	db := open(t, url)
	if err := database.MigrateUp(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return &Database{URL: url, DB: db}
}

// Reopen opens an independent pool on the same database. Nothing it sees can come from an
// uncommitted transaction of the original pool.
func (d *Database) Reopen(t *testing.T) *gorm.DB {
	t.Helper()
	return open(t, d.URL)
}

func open(t *testing.T, url string) *gorm.DB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	log := logrus.New()
	log.SetOutput(testWriter{t})
	log.SetLevel(logrus.WarnLevel)

	opts := database.DefaultOptions(url)
	opts.Logger = logrus.NewEntry(log)
	opts.LogLevel = gormlogger.Warn

	db, err := database.NewConnection(ctx, opts)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := database.Close(db); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})
	return db
}

// testWriter routes log output into the test log.
type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}
