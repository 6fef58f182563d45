package main

import "github.com/spf13/cobra"

type rootOptions struct {
	envFile string
}

func (o *rootOptions) envPaths() []string {
	if o.envFile == "" {
		return nil
	}
	return []string{o.envFile}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "agreement-service",
		Short:        "Agreement negotiation and revenue reporting service",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "path to .env file (default: ./.env if present)")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newMigrateCmd(opts))
	return cmd
}
