package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"teacher_registry/internal/infra/config"

	_ "github.com/lib/pq" // PostgreSQL driver, used through the GORM postgres dialector
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Dialect identifies the database engine behind a connection URL.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

const (
	defaultMaxOpenConns       = 25
	defaultMaxIdleConns       = 25
	defaultConnMaxLifetime    = 5 * time.Minute
	defaultConnMaxIdleTime    = 1 * time.Minute
	defaultSlowQueryThreshold = 200 * time.Millisecond

	// sqliteBusyTimeout keeps a second connection from failing immediately while another one writes.
	sqliteBusyTimeout = "_busy_timeout=5000"
)

// Options controls how NewConnection opens and tunes the pool.
type Options struct {
	URL                string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetime    time.Duration
	ConnMaxIdleTime    time.Duration
	SlowQueryThreshold time.Duration
	LogLevel           gormlogger.LogLevel
	Logger             *logrus.Entry
}

// DefaultOptions returns pool settings matching the application defaults for url.
func DefaultOptions(url string) Options {
	return Options{
		URL:                url,
		MaxOpenConns:       defaultMaxOpenConns,
		MaxIdleConns:       defaultMaxIdleConns,
		ConnMaxLifetime:    defaultConnMaxLifetime,
		ConnMaxIdleTime:    defaultConnMaxIdleTime,
		SlowQueryThreshold: defaultSlowQueryThreshold,
		LogLevel:           gormlogger.Warn,
	}
}

// OptionsFromConfig converts the application configuration into connection options.
func OptionsFromConfig(cfg *config.AppConfig, log *logrus.Entry) (Options, error) {
	opts := DefaultOptions(cfg.DatabaseURL)
	opts.MaxOpenConns = cfg.DBMaxOpenConns
	opts.MaxIdleConns = cfg.DBMaxIdleConns
	opts.Logger = log

	var err error
	if opts.ConnMaxLifetime, err = time.ParseDuration(cfg.DBConnMaxLifetime); err != nil {
		return Options{}, fmt.Errorf("invalid db_conn_max_lifetime %q: %w", cfg.DBConnMaxLifetime, err)
	}
	if opts.ConnMaxIdleTime, err = time.ParseDuration(cfg.DBConnMaxIdleTime); err != nil {
		return Options{}, fmt.Errorf("invalid db_conn_max_idle_time %q: %w", cfg.DBConnMaxIdleTime, err)
	}
	if opts.SlowQueryThreshold, err = time.ParseDuration(cfg.SlowQueryThreshold); err != nil {
		return Options{}, fmt.Errorf("invalid slow_query_threshold %q: %w", cfg.SlowQueryThreshold, err)
	}
	if cfg.LogLevel == "debug" {
		opts.LogLevel = gormlogger.Info
	}
	return opts, nil
}

// ParseURL splits a connection URL into its dialect and the DSN the driver expects.
// Supported forms: postgres://..., postgresql://..., sqlite://<path>, file:<path>.
func ParseURL(url string) (Dialect, string, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DialectPostgres, url, nil
	case strings.HasPrefix(url, "sqlite://"):
		path := strings.TrimPrefix(url, "sqlite://")
		if path == "" {
			return "", "", fmt.Errorf("sqlite URL %q has no path", url)
		}
		if !strings.Contains(path, "?") {
			path += "?" + sqliteBusyTimeout
		}
		return DialectSQLite, path, nil
	case strings.HasPrefix(url, "file:"):
		return DialectSQLite, url, nil
	default:
		return "", "", fmt.Errorf("unsupported database URL scheme in %q", redact(url))
	}
}

// NewConnection opens a GORM connection pool for opts.URL.
// It also pings the database to ensure connectivity.
func NewConnection(ctx context.Context, opts Options) (*gorm.DB, error) {
	dialect, dsn, err := ParseURL(opts.URL)
	if err != nil {
		return nil, err
	}

	var dialector gorm.Dialector
	switch dialect {
	case DialectPostgres:
		dialector = postgres.New(postgres.Config{DriverName: "postgres", DSN: dsn})
	case DialectSQLite:
		dialector = sqlite.Open(dsn)
	}

	log := opts.Logger
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(log, opts.SlowQueryThreshold, opts.LogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(opts.ConnMaxIdleTime)

	if err = sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close() // Close the pool if ping fails
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.WithField("dialect", dialect).Info("Database connection established")
	return db, nil
}

// Close releases the pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// redact hides credentials in a URL before it reaches an error message or a log line.
func redact(url string) string {
	scheme, rest, ok := strings.Cut(url, "://")
	if !ok {
		return url
	}
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		return scheme + "://***@" + rest[at+1:]
	}
	return url
}
