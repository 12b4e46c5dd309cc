// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Attenda CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attenda",
		Short: "Attenda - employee attendance client",
		Long: `Attenda is the employee-attendance client: it authenticates against
the attendance backend, persists the session across two local storage
tiers, and gates every login on a verified device location.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(NewLoginCmd())
	cmd.AddCommand(NewStatusCmd())
	cmd.AddCommand(NewLogoutCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
