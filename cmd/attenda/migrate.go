// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/attenda/attenda/internal/config"
	"github.com/attenda/attenda/internal/session/store"
)

// migrateConfig holds configuration for the migrate command.
type migrateConfig struct {
	down bool
}

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	cfg := &migrateConfig{}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run storage schema migrations",
		Long:  `Run the session storage migrations against the configured PostgreSQL database.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, cfg)
		},
	}

	cmd.Flags().BoolVar(&cfg.down, "down", false, "roll the schema back instead of migrating up (destructive)")

	return cmd
}

func runMigrate(cmd *cobra.Command, cfg *migrateConfig) error {
	appCfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if appCfg.Storage.Backend != config.BackendPostgres {
		return oops.Code("CONFIG_INVALID").
			With("backend", appCfg.Storage.Backend).
			Errorf("migrations only apply to the postgres backend")
	}

	migrator, err := store.NewMigrator(appCfg.Storage.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = migrator.Close() }()

	if cfg.down {
		cmd.Println("Rolling schema back...")
		if err := migrator.Down(); err != nil {
			return err
		}
		cmd.Println("Rollback completed")
		return nil
	}

	cmd.Println("Running migrations...")
	if err := migrator.Up(); err != nil {
		return err
	}

	version, dirty, err := migrator.Version()
	if err != nil {
		return err
	}
	cmd.Printf("Migrations completed (version %d, dirty %v)\n", version, dirty)
	return nil
}
