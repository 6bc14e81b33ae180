package database

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

// migrationsTable is kept apart from the default name so the registry can share a database.
const migrationsTable = "teacher_schema_migrations"

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrateUp applies every pending migration. No pending migrations is not an error.
func MigrateUp(db *gorm.DB) error {
	return withMigrator(db, func(m *migrate.Migrate) error {
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migrate up: %w", err)
		}
		return nil
	})
}

// MigrateDown rolls back every applied migration, dropping the teacher table.
func MigrateDown(db *gorm.DB) error {
	return withMigrator(db, func(m *migrate.Migrate) error {
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migrate down: %w", err)
		}
		return nil
	})
}

// MigrateVersion returns the current migration version and dirty flag.
func MigrateVersion(db *gorm.DB) (version uint, dirty bool, err error) {
	err = withMigrator(db, func(m *migrate.Migrate) error {
		version, dirty, err = m.Version()
		return err
	})
	return version, dirty, err
}

// withMigrator runs fn with a golang-migrate instance on the pool behind db.
// The migrator is never closed: for sqlite3 that would close the shared sql.DB. The postgres
// driver instead gets a dedicated connection, released here once fn returns.
func withMigrator(db *gorm.DB, fn func(m *migrate.Migrate) error) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}

	var driver migratedb.Driver
	switch name := db.Dialector.Name(); name {
	case string(DialectPostgres):
		ctx := context.Background()
		conn, err := sqlDB.Conn(ctx)
		if err != nil {
			return fmt.Errorf("acquire migration connection: %w", err)
		}
		defer conn.Close()
		driver, err = migratepg.WithConnection(ctx, conn, &migratepg.Config{MigrationsTable: migrationsTable})
		if err != nil {
			return fmt.Errorf("create migration driver: %w", err)
		}
	case string(DialectSQLite):
		driver, err = migratesqlite.WithInstance(sqlDB, &migratesqlite.Config{MigrationsTable: migrationsTable})
		if err != nil {
			return fmt.Errorf("create migration driver: %w", err)
		}
	default:
		return fmt.Errorf("no migration driver for dialect %q", name)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, db.Dialector.Name(), driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	return fn(m)
}
