package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/drive/pkg/baas/pgstore"
	"github.com/dmitrymomot/drive/pkg/config"
	"github.com/dmitrymomot/drive/pkg/pg"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run document store migrations",
		Long:  `Apply pending migrations of the Postgres document store used by the embedded backend.`,
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	_, log, err := loadApp()
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}

	var cfg pg.Config
	if err := config.Load(&cfg); err != nil {
		return oops.Code("CONFIG_INVALID").With("operation", "load postgres config").Wrap(err)
	}

	ctx := cmd.Context()

	cmd.Println("Connecting to database...")
	pool, err := pg.Connect(ctx, cfg)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer pool.Close()

	cmd.Println("Running migrations...")
	if err := pg.Migrate(ctx, pool, pgstore.Migrations, cfg, log); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "run migrations").Wrap(err)
	}

	cmd.Println("Migrations completed successfully")
	return nil
}
