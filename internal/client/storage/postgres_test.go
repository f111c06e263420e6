package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestPostgresStore_Get(t *testing.T) {
	mock := newMockPool(t)
	s := NewPostgresStore(mock)

	mock.ExpectQuery(`SELECT value FROM kv WHERE key = \$1`).
		WithArgs("k").
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow("v"))

	v, err := s.Get(context.Background(), "k")
	require.NoError(t, err)
	require.Equal(t, "v", v)
}

func TestPostgresStore_GetMissing(t *testing.T) {
	mock := newMockPool(t)
	s := NewPostgresStore(mock)

	mock.ExpectQuery(`SELECT value FROM kv`).
		WithArgs("absent").
		WillReturnError(pgx.ErrNoRows)

	v, err := s.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.Empty(t, v)
}

func TestPostgresStore_GetError(t *testing.T) {
	mock := newMockPool(t)
	s := NewPostgresStore(mock)

	mock.ExpectQuery(`SELECT value FROM kv`).
		WithArgs("k").
		WillReturnError(errors.New("conn reset"))

	_, err := s.Get(context.Background(), "k")
	require.ErrorContains(t, err, "failed to get kv[k]")
}

func TestPostgresStore_Set(t *testing.T) {
	mock := newMockPool(t)
	s := NewPostgresStore(mock)

	mock.ExpectExec(`INSERT INTO kv`).
		WithArgs("k", "v").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.Set(context.Background(), "k", "v"))
}

func TestPostgresStore_SetError(t *testing.T) {
	mock := newMockPool(t)
	s := NewPostgresStore(mock)

	mock.ExpectExec(`INSERT INTO kv`).
		WithArgs("k", "v").
		WillReturnError(errors.New("boom"))

	require.ErrorContains(t, s.Set(context.Background(), "k", "v"), "failed to set kv[k]")
}

func TestPostgresStore_Delete(t *testing.T) {
	mock := newMockPool(t)
	s := NewPostgresStore(mock)

	mock.ExpectExec(`DELETE FROM kv WHERE key = \$1`).
		WithArgs("k").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, s.Delete(context.Background(), "k"))
}

func TestMigrateAndClose_ReleasesHandle(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)

	require.NoError(t, migrateAndClose(ctx, db, goose.DialectSQLite3))
	require.Error(t, db.PingContext(ctx))

	reopened, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	s := NewSQLiteStore(reopened)
	require.NoError(t, s.Set(ctx, "k", "v"))
}
