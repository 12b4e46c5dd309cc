// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/attenda/attenda/internal/config"
)

// logoutConfig holds configuration for the logout command.
type logoutConfig struct {
	wipe bool
}

// NewLogoutCmd creates the logout subcommand.
func NewLogoutCmd() *cobra.Command {
	cfg := &logoutConfig{}

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "End the stored session",
		Long: `End the stored session. By default the cached profile and sealed
credentials stay around for a faster re-login; --wipe deletes both
storage tiers entirely.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogoutWithDeps(cmd, cfg, nil)
		},
	}

	cmd.Flags().BoolVar(&cfg.wipe, "wipe", false, "delete both storage tiers instead of a soft logout")

	return cmd
}

// runLogoutWithDeps executes the logout command with injectable dependencies.
func runLogoutWithDeps(cmd *cobra.Command, cfg *logoutConfig, deps *AppDeps) error {
	appCfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := buildApp(ctx, appCfg, deps)
	if err != nil {
		return err
	}
	defer a.cleanup()

	if cfg.wipe {
		if err := a.controller.Wipe(ctx); err != nil {
			return err
		}
		cmd.Println("session wiped")
		return nil
	}

	if err := a.controller.Logout(ctx); err != nil {
		return err
	}
	cmd.Println("logged out")
	return nil
}
