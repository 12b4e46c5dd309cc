// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

package store

import (
	"context"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attenda/attenda/pkg/errutil"
)

func newPostgresKV(t *testing.T) (*PostgresKV, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	kv, err := NewPostgresKV(mock)
	require.NoError(t, err)
	return kv, mock
}

func TestPostgresKV(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a connection", func(t *testing.T) {
		_, err := NewPostgresKV(nil)
		require.Error(t, err)
	})

	t.Run("get returns the stored value", func(t *testing.T) {
		kv, mock := newPostgresKV(t)
		mock.ExpectQuery(`SELECT value FROM session_kv`).
			WithArgs("k").
			WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow("v"))

		v, ok, err := kv.Get(ctx, "k")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "v", v)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent key reads as missing", func(t *testing.T) {
		kv, mock := newPostgresKV(t)
		mock.ExpectQuery(`SELECT value FROM session_kv`).
			WithArgs("nope").
			WillReturnRows(pgxmock.NewRows([]string{"value"}))

		_, ok, err := kv.Get(ctx, "nope")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("set upserts", func(t *testing.T) {
		kv, mock := newPostgresKV(t)
		mock.ExpectExec(`INSERT INTO session_kv`).
			WithArgs("k", "v").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, kv.Set(ctx, "k", "v"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete removes the key", func(t *testing.T) {
		kv, mock := newPostgresKV(t)
		mock.ExpectExec(`DELETE FROM session_kv`).
			WithArgs("k").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, kv.Delete(ctx, "k"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing table hints at migrate", func(t *testing.T) {
		kv, mock := newPostgresKV(t)
		mock.ExpectExec(`INSERT INTO session_kv`).
			WithArgs("k", "v").
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UndefinedTable})

		err := kv.Set(ctx, "k", "v")
		errutil.AssertErrorCode(t, err, "AUTH_STORAGE_ERROR")
		errutil.AssertErrorContext(t, err, "hint", "run `attenda migrate` to create the schema")
	})

	t.Run("other failures are plain storage errors", func(t *testing.T) {
		kv, mock := newPostgresKV(t)
		mock.ExpectExec(`DELETE FROM session_kv`).
			WithArgs("k").
			WillReturnError(&pgconn.PgError{Code: pgerrcode.ConnectionFailure})

		err := kv.Delete(ctx, "k")
		errutil.AssertErrorCode(t, err, "AUTH_STORAGE_ERROR")
		errutil.AssertNoErrorContext(t, err, "hint")
	})
}
