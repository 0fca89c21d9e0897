package main

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/nasa-in-go/pkg/config"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/db"
)

// dbMigrateCmd represents the db migrate command
var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create and/or upgrade the database schema",
	Long: `Create and/or upgrade the database schema.

Runs every pending migration in db/migrations against DATABASE_URL.

Example:
  nasactl db migrate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbURL, err := databaseURL()
		if err != nil {
			return err
		}
		return runMigrations(dbURL)
	},
}

var dbMigrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Rollback database migrations",
	Long: `Rollback database migrations.

Example:
  nasactl db down        # Rollback 1 migration
  nasactl db down -n 2   # Rollback 2 migrations`,
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, _ := cmd.Flags().GetInt("steps")
		if steps < 1 {
			return fmt.Errorf("steps must be at least 1, got %d", steps)
		}
		dbURL, err := databaseURL()
		if err != nil {
			return err
		}
		return runMigrationsDown(dbURL, steps)
	},
}

var dbMigrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current migration version",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbURL, err := databaseURL()
		if err != nil {
			return err
		}
		return showMigrationStatus(dbURL)
	},
}

func init() {
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbMigrateDownCmd)
	dbCmd.AddCommand(dbMigrateStatusCmd)

	dbMigrateDownCmd.Flags().IntP("steps", "n", 1, "number of migrations to roll back")
}

// databaseURL returns the configured PostgreSQL URL. SQLite databases are
// created from the models and have no migration history.
func databaseURL() (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return "", errors.New("DATABASE_URL environment variable is required")
	}
	dialect, _, err := db.DialectOf(cfg.DatabaseURL)
	if err != nil {
		return "", err
	}
	if dialect != db.Postgres {
		return "", fmt.Errorf("migrations apply to PostgreSQL only, %s schemas come from the models", dialect)
	}
	return cfg.DatabaseURL, nil
}

// migrateOnStart brings the schema up to date before serving
func migrateOnStart(dbURL string, database *gorm.DB) error {
	dialect, _, err := db.DialectOf(dbURL)
	if err != nil {
		return err
	}
	if dialect == db.SQLite {
		logrus.Info("creating SQLite schema from models")
		return db.AutoMigrate(database)
	}
	return runMigrations(dbURL)
}

func runMigrations(dbURL string) error {
	m, err := createMigrateInstance(dbURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	version, dirty, _ := m.Version()
	logrus.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Info("current schema version")

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logrus.Info("no migrations to run, database is up to date")
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	newVersion, _, _ := m.Version()
	logrus.WithField("version", newVersion).Info("migrations complete")
	return nil
}

func runMigrationsDown(dbURL string, steps int) error {
	m, err := createMigrateInstance(dbURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	logrus.WithField("steps", steps).Info("rolling back migrations")
	if err := m.Steps(-steps); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}

	version, _, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Println("Rolled back every migration")
		return nil
	}
	fmt.Printf("Rolled back to version: %d\n", version)
	return nil
}

func showMigrationStatus(dbURL string) error {
	m, err := createMigrateInstance(dbURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	version, dirty, err := m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("No migrations have been applied yet")
			return nil
		}
		return err
	}

	fmt.Printf("Current version: %d\n", version)
	if dirty {
		fmt.Println("Warning: Database is in a dirty state")
	}
	return nil
}
