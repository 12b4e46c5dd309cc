// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/attenda/attenda/internal/config"
	"github.com/attenda/attenda/internal/session"
)

// loginConfig holds configuration for the login command.
type loginConfig struct {
	email       string
	password    string
	loginType   string
	accuracy    float64
	latitude    float64
	longitude   float64
	fixAccuracy float64
}

// NewLoginCmd creates the login subcommand.
func NewLoginCmd() *cobra.Command {
	cfg := &loginConfig{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the attendance backend",
		Long: `Authenticate with email/password or a stored biometric credential.
The attempt is gated on a location fix within the accuracy threshold;
on success the session is persisted to both local storage tiers.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLoginWithDeps(cmd, cfg, nil)
		},
	}

	cmd.Flags().StringVar(&cfg.email, "email", "", "account email (email login)")
	cmd.Flags().StringVar(&cfg.password, "password", "", "account password (email login)")
	cmd.Flags().StringVar(&cfg.loginType, "type", "email", "login type (email or biometric)")
	cmd.Flags().Float64Var(&cfg.accuracy, "accuracy", 0, "per-attempt accuracy threshold in meters (0 = configured default)")
	cmd.Flags().Float64Var(&cfg.latitude, "lat", 0, "manual fix latitude")
	cmd.Flags().Float64Var(&cfg.longitude, "lon", 0, "manual fix longitude")
	cmd.Flags().Float64Var(&cfg.fixAccuracy, "fix-accuracy", 0, "manual fix accuracy in meters (0 = at threshold)")

	return cmd
}

// runLoginWithDeps executes the login command with injectable dependencies.
func runLoginWithDeps(cmd *cobra.Command, cfg *loginConfig, deps *AppDeps) error {
	appCfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}

	if deps == nil {
		deps = &AppDeps{}
	}
	if deps.GeoProvider == nil {
		fixAccuracy := cfg.fixAccuracy
		if fixAccuracy <= 0 {
			fixAccuracy = appCfg.Location.AccuracyThreshold
		}
		deps.GeoProvider = &manualProvider{
			latitude:  cfg.latitude,
			longitude: cfg.longitude,
			accuracy:  fixAccuracy,
		}
	}

	ctx := cmd.Context()
	a, err := buildApp(ctx, appCfg, deps)
	if err != nil {
		return err
	}
	defer a.cleanup()

	auth, err := a.controller.Login(ctx, session.LoginRequest{
		Kind:             session.StrategyKind(cfg.loginType),
		Email:            cfg.email,
		Password:         cfg.password,
		AccuracyOverride: cfg.accuracy,
	})
	if err != nil {
		return err
	}

	user := auth.AuthState.User
	cmd.Printf("Logged in as %s (user %d, employee %d)\n",
		user.Email.String(), user.ID.Int64(), user.Person.Employee.ID.Int64())
	return nil
}
