package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/foodcodes/internal/accounts/app"
)

func main() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func NewRootCmd() *cobra.Command {
	var cfg app.Config

	c := cobra.Command{
		Use:           "accounts",
		Short:         "Account registration, activation and profile service",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) (err error) {
			cfg, err = app.LoadConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd, cfg)
		},
	}

	c.AddCommand(
		newServeCmd(&cfg),
		newMigrateCmd(&cfg),
		newPurgeCmd(&cfg),
	)
	return &c
}

func newServeCmd(cfg *app.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd, *cfg)
		},
	}
}

func serve(cmd *cobra.Command, cfg app.Config) error {
	application, err := app.New(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return application.Run()
}

func newMigrateCmd(cfg *app.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Migrate(cmd.Context(), *cfg, app.NewLogger(*cfg))
		},
	}
}

func newPurgeCmd(cfg *app.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "purge-inactive",
		Short: "Delete accounts that were never activated and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := app.PurgeInactive(cmd.Context(), *cfg, app.NewLogger(*cfg))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "purged %d inactive accounts\n", n)
			return nil
		},
	}
}
