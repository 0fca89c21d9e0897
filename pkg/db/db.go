package db

import (
	"fmt"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/doodlesbykumbi/nasa-in-go/pkg/model"
)

// Dialect names a supported database engine
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// Config holds database connection configuration
type Config struct {
	// URL is the database connection URL (defaults to DATABASE_URL env var)
	URL string
	// LogLevel enables SQL logging when set to "debug"
	LogLevel string
}

// DialectOf returns the engine named by url's scheme, plus the DSN the
// driver expects.
func DialectOf(url string) (Dialect, string, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return Postgres, url, nil
	case strings.HasPrefix(url, "sqlite://"):
		dsn := strings.TrimPrefix(url, "sqlite://")
		if dsn == "" {
			return "", "", fmt.Errorf("sqlite URL %q has no path", url)
		}
		return SQLite, dsn, nil
	default:
		return "", "", fmt.Errorf("unsupported database URL scheme in %q", redact(url))
	}
}

// Connect establishes a database connection.
// If no URL is provided, it reads from DATABASE_URL environment variable.
func Connect(cfg Config) (*gorm.DB, error) {
	dbURL := cfg.URL
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	dialect, dsn, err := DialectOf(dbURL)
	if err != nil {
		return nil, err
	}

	// Default to silent logging unless the log level is debug
	logLevel := cfg.LogLevel
	if logLevel == "" {
		logLevel = os.Getenv("LOG_LEVEL")
	}
	logMode := logger.Silent
	if logLevel == "debug" {
		logMode = logger.Info
	}
	gormConfig := &gorm.Config{Logger: logger.Default.LogMode(logMode)}

	var dialector gorm.Dialector
	switch dialect {
	case Postgres:
		dialector = postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		})
	case SQLite:
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// AutoMigrate creates the gateway tables from the models. It backs the
// SQLite development mode; PostgreSQL uses the SQL migrations in db/.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.Apod{}, &model.Member{}, &model.MemberRole{})
}

func redact(url string) string {
	if i := strings.Index(url, "@"); i >= 0 {
		if j := strings.Index(url, "://"); j >= 0 && j < i {
			return url[:j+3] + "***" + url[i:]
		}
	}
	return url
}
