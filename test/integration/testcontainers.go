package integration

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	migrations "github.com/doodlesbykumbi/nasa-in-go/db"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/audit"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/config"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/db"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/logging"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/server"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/server/endpoints"
)

// TestContext holds all the resources needed for integration tests
type TestContext struct {
	DB          *gorm.DB
	Container   testcontainers.Container
	DatabaseURL string
	Nasa        *NasaStub
	Server      *server.Server
	ServerURL   string
	HTTPClient  *http.Client

	cancel context.CancelFunc
	done   chan error
}

// NewTestContext starts PostgreSQL in a container, migrates it, and runs
// the gateway in-process against it and a stubbed NASA API
func NewTestContext(ctx context.Context) (*TestContext, error) {
	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("nasa_test"),
		tcpostgres.WithUsername("nasa"),
		tcpostgres.WithPassword("nasa"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	if err := runMigrations(connStr); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	database, err := db.Connect(db.Config{URL: connStr})
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}

	stub := NewNasaStub()
	tc := &TestContext{
		DB:          database,
		Container:   pgContainer,
		DatabaseURL: connStr,
		Nasa:        stub,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
	if err := tc.startServer(); err != nil {
		tc.Close(ctx)
		return nil, err
	}
	return tc, nil
}

func (tc *TestContext) startServer() error {
	cfg := &config.NasaConfig{
		Port:            0,
		BindAddress:     "127.0.0.1",
		NasaAPIKey:      "TEST_KEY",
		NasaBaseURL:     tc.Nasa.URL,
		UpstreamTimeout: 5 * time.Second,
		TokenTTL:        5 * time.Minute,
		TokenIssuer:     "integration",
		LogLevel:        "warn",
		LogFormat:       "text",
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	s, err := server.NewServer(server.Options{
		Config:  cfg,
		DB:      tc.DB,
		Logger:  logger,
		Version: "integration",
		Audit:   audit.Discard(),
	})
	if err != nil {
		return err
	}
	endpoints.RegisterAll(s)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	tc.cancel = cancel
	tc.done = make(chan error, 1)
	go func() { tc.done <- s.Run(ctx, l) }()

	tc.Server = s
	tc.ServerURL = "http://" + l.Addr().String()
	return waitForServer(tc.ServerURL, 30*time.Second)
}

// waitForServer polls the server until it responds or times out
func waitForServer(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + "/")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server did not become ready within %v", timeout)
}

// Close cleans up all test resources
func (tc *TestContext) Close(ctx context.Context) {
	if tc.cancel != nil {
		tc.cancel()
		if err := <-tc.done; err != nil {
			log.Printf("server stopped with error: %v", err)
		}
	}
	if tc.Nasa != nil {
		tc.Nasa.Close()
	}
	if tc.DB != nil {
		if sqlDB, err := tc.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}

// runMigrations applies the embedded migrations the way `nasactl db migrate` does
func runMigrations(dbURL string) error {
	sub, err := fs.Sub(migrations.Migrations, "migrations")
	if err != nil {
		return err
	}
	source, err := iofs.New(sub, ".")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, dbURL)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
