package main

import (
	"fmt"

	"github.com/aussiebroadwan/orgauth/internal/auth/app"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the auth CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Organisation identity and invite service",
		Long: `auth registers users, issues session tokens, manages organisations
and emails invitations on behalf of organisation owners.

Configuration is read from the environment.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}

			application, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			return application.Run()
		},
	}
}

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply store migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}
			logger := app.NewLogger(cfg)

			db, err := app.OpenStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if err := db.ApplyMigrations(); err != nil {
				return fmt.Errorf("failed to apply migrations: %w", err)
			}

			logger.Info("migrations applied", "driver", cfg.StoreDriver)
			cmd.Println("Migrations completed successfully")
			return nil
		},
	}
}
