// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

package store

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"
)

// pgxQuerier is the subset of pgxpool.Pool the KV needs. Kept narrow so
// unit tests can run against pgxmock.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresKV backs a storage tier with a single key-value table. Used by
// kiosk deployments that already run Postgres for attendance capture.
type PostgresKV struct {
	db pgxQuerier
}

// NewPostgresKV creates a PostgresKV over an existing pool or mock.
func NewPostgresKV(db pgxQuerier) (*PostgresKV, error) {
	if db == nil {
		return nil, oops.Errorf("postgres kv requires a connection")
	}
	return &PostgresKV{db: db}, nil
}

// Get returns the value stored under key.
func (p *PostgresKV) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := p.db.QueryRow(ctx,
		`SELECT value FROM session_kv WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, pgError("get", err)
	}
	return value, true, nil
}

// Set stores the value under key.
func (p *PostgresKV) Set(ctx context.Context, key, value string) error {
	_, err := p.db.Exec(ctx,
		`INSERT INTO session_kv (key, value, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value)
	if err != nil {
		return pgError("set", err)
	}
	return nil
}

// Delete removes the key.
func (p *PostgresKV) Delete(ctx context.Context, key string) error {
	_, err := p.db.Exec(ctx, `DELETE FROM session_kv WHERE key = $1`, key)
	if err != nil {
		return pgError("delete", err)
	}
	return nil
}

func pgError(op string, err error) error {
	builder := oops.Code("AUTH_STORAGE_ERROR").
		With("backend", "postgres").
		With("op", op)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable {
		return builder.
			With("hint", "run `attenda migrate` to create the schema").
			Wrap(err)
	}
	return builder.Wrap(err)
}
