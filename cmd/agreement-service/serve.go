package main

import (
	"context"
	"fmt"

	"real-estate-system/internal"
	"real-estate-system/internal/configs"

	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the notification consumer",
		RunE: func(cmd *cobra.Command, args []string) error {
			appConfig, err := configs.LoadConfig(opts.envPaths()...)
			if err != nil {
				return fmt.Errorf("error loading application configuration: %w", err)
			}

			application, err := internal.NewApp(appConfig)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}

			if migrate {
				if err := application.Migrate(context.Background()); err != nil {
					return fmt.Errorf("failed to apply migrations: %w", err)
				}
			}

			return application.Run()
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before start")
	return cmd
}
