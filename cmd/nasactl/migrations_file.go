//go:build migrations_file

package main

import (
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
)

const defaultMigrationsPath = "db/migrations"

func createMigrateInstance(dbURL string) (*migrate.Migrate, error) {
	path := defaultMigrationsPath
	if p := os.Getenv("NASA_MIGRATIONS_PATH"); p != "" {
		path = p
	}
	logrus.WithField("source", "file://"+path).Info("reading migrations from disk")
	return migrate.New("file://"+path, dbURL)
}
