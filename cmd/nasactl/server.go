package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/nasa-in-go/pkg/config"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/db"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/logging"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/metrics"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/server"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/server/endpoints"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the gateway",
	Long: `Run the gateway until interrupted.

Requires DATABASE_URL. A postgres:// URL is migrated with the SQL
migrations, a sqlite:// URL with the model schema. Use --no-migrate to skip
both.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("bind-address") {
			cfg.BindAddress, _ = cmd.Flags().GetString("bind-address")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			return err
		}
		if cfg.NasaAPIKey == "" {
			logger.Warn("NASA_API_KEY is not set, NASA requests will be rate limited or refused")
		}

		database, err := db.Connect(db.Config{URL: cfg.DatabaseURL, LogLevel: cfg.LogLevel})
		if err != nil {
			return err
		}

		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			if err := migrateOnStart(cfg.DatabaseURL, database); err != nil {
				return err
			}
		}

		s, err := server.NewServer(server.Options{
			Config:  cfg,
			DB:      database,
			Logger:  logger,
			Version: version,
			Metrics: metrics.New(true),
		})
		if err != nil {
			return err
		}
		endpoints.RegisterAll(s)

		l, err := net.Listen("tcp", cfg.ListenAddress())
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", cfg.ListenAddress(), err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return s.Run(ctx, l)
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().IntP("port", "p", 8080, "server listen port (overrides PORT)")
	serverCmd.Flags().StringP("bind-address", "b", "127.0.0.1", "server bind address (overrides BIND_ADDRESS)")
	serverCmd.Flags().Bool("no-migrate", false, "skip database migrations on start")
}
