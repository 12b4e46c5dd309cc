// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/attenda/attenda/internal/config"
	"github.com/attenda/attenda/internal/identity"
)

// SessionStatus holds the read-back view of the persisted session.
type SessionStatus struct {
	Authenticated bool   `json:"authenticated"`
	Email         string `json:"email,omitempty"`
	Name          string `json:"name,omitempty"`
	UserID        int64  `json:"user_id,omitempty"`
	EmployeeID    int64  `json:"employee_id,omitempty"`
	Position      string `json:"position,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
	BiometricsOn  bool   `json:"biometrics_enabled"`
}

// statusConfig holds configuration for the status command.
type statusConfig struct {
	jsonOutput bool
}

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	cfg := &statusConfig{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the persisted session, if any",
		Long:  `Show whether a session is stored locally and who it belongs to.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatusWithDeps(cmd, cfg, nil)
		},
	}

	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output status as JSON")

	return cmd
}

// runStatusWithDeps executes the status command with injectable dependencies.
func runStatusWithDeps(cmd *cobra.Command, cfg *statusConfig, deps *AppDeps) error {
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

	auth, err := a.controller.GetAuthState(ctx)
	if err != nil {
		return err
	}

	status := buildSessionStatus(auth)

	if cfg.jsonOutput {
		out, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		cmd.Println(string(out))
		return nil
	}

	cmd.Println(formatStatusTable(status))
	return nil
}

func buildSessionStatus(auth *identity.Authentication) SessionStatus {
	if auth == nil || auth.AuthState == nil || auth.AuthState.User == nil {
		return SessionStatus{}
	}

	user := auth.AuthState.User
	status := SessionStatus{
		Authenticated: auth.IsAuthenticated(),
		Email:         user.Email.String(),
		Name:          user.Name,
		UserID:        user.ID.Int64(),
		CreatedAt:     auth.CreatedAt.Format(time.RFC3339),
	}
	if user.HasEmployee() {
		status.EmployeeID = user.Person.Employee.ID.Int64()
		status.Position = user.Person.Employee.Position
	}
	if auth.BiometricsPreferences != nil {
		status.BiometricsOn = auth.BiometricsPreferences.IsEnabled
	}
	return status
}

func formatStatusTable(status SessionStatus) string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)

	if status.Email == "" {
		fmt.Fprintln(w, "no stored session")
	} else {
		fmt.Fprintf(w, "authenticated\t%v\n", status.Authenticated)
		fmt.Fprintf(w, "email\t%s\n", status.Email)
		fmt.Fprintf(w, "name\t%s\n", status.Name)
		fmt.Fprintf(w, "user id\t%d\n", status.UserID)
		if status.EmployeeID != 0 {
			fmt.Fprintf(w, "employee id\t%d\n", status.EmployeeID)
			fmt.Fprintf(w, "position\t%s\n", status.Position)
		}
		fmt.Fprintf(w, "created at\t%s\n", status.CreatedAt)
		fmt.Fprintf(w, "biometrics\t%v\n", status.BiometricsOn)
	}

	_ = w.Flush()
	return strings.TrimRight(sb.String(), "\n")
}
