package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/postfetch/sqlite"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDB_Open(t *testing.T) {
	t.Parallel()

	t.Run("creates schema on first open", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)

		var count int
		err := db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM extractions").Scan(&count)
		require.NoError(t, err)
		require.Zero(t, count)
	})

	t.Run("returns error for invalid path", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB("/nonexistent/path/db.sqlite")
		err := db.Open()
		require.Error(t, err)
	})

	t.Run("enables WAL mode for file-based databases", func(t *testing.T) {
		t.Parallel()

		dbPath := t.TempDir() + "/test.db"
		db := sqlite.NewDB(dbPath)
		err := db.Open()
		require.NoError(t, err)
		defer db.Close()

		var journalMode string
		err = db.QueryRowContext(context.Background(), "PRAGMA journal_mode").Scan(&journalMode)
		require.NoError(t, err)
		require.Equal(t, "wal", journalMode)
	})

	t.Run("reopens an existing database", func(t *testing.T) {
		t.Parallel()

		dbPath := t.TempDir() + "/test.db"
		first := sqlite.NewDB(dbPath)
		require.NoError(t, first.Open())
		require.NoError(t, first.Close())

		second := sqlite.NewDB(dbPath)
		require.NoError(t, second.Open())
		require.NoError(t, second.Close())
	})
}
