package main

import (
	"context"
	"fmt"

	logger_adapter "real-estate-system/internal/adapters/logger"
	"real-estate-system/internal/configs"
	"real-estate-system/internal/core/port"
	"real-estate-system/migrations"
	"real-estate-system/pkg/postgres"

	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")

	// withMigrator открывает пул, выполняет fn и закрывает пул.
	withMigrator := func(cmd *cobra.Command, fn func(ctx context.Context, m *migrations.Migrator) error) error {
		dbConfig, err := configs.LoadDatabaseConfig(opts.envPaths()...)
		if err != nil {
			return err
		}
		logger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
			Writer:   cmd.ErrOrStderr(),
			Level:    logger_adapter.ParseLevel(logLevel),
			UseColor: true,
		}).WithFields(port.Fields{"command": cmd.CommandPath()})

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		pool, err := postgres.NewClient(ctx, postgres.Config{
			DatabaseURL:    dbConfig.URL,
			MaxConns:       2,
			ConnectTimeout: dbConfig.ConnectTimeout,
		})
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL", err, nil)
			return err
		}
		defer pool.Close()

		list, err := migrations.Load()
		if err != nil {
			return err
		}
		return fn(ctx, migrations.NewMigrator(pool, list, logger))
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, func(ctx context.Context, m *migrations.Migrator) error {
				applied, err := m.Up(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", applied)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the last applied migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, func(ctx context.Context, m *migrations.Migrator) error {
				return m.Down(ctx)
			})
		},
	})

	return cmd
}
