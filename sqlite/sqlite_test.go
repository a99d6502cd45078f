package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fwojciec/bdmscrape/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDB_Open(t *testing.T) {
	t.Parallel()

	t.Run("creates the articles table and indexes", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(":memory:")
		require.NoError(t, db.Open())
		defer db.Close()

		ctx := context.Background()

		var count int
		err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles").Scan(&count)
		require.NoError(t, err)
		assert.Zero(t, count)

		rows, err := db.QueryContext(ctx,
			"SELECT name FROM sqlite_master WHERE type = 'index' AND tbl_name = 'articles' AND name LIKE 'idx_%' ORDER BY name")
		require.NoError(t, err)
		defer rows.Close()
		var indexes []string
		for rows.Next() {
			var name string
			require.NoError(t, rows.Scan(&name))
			indexes = append(indexes, name)
		}
		require.NoError(t, rows.Err())
		assert.Equal(t, []string{"idx_articles_category", "idx_articles_subcategory"}, indexes)
	})

	t.Run("records the schema version", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(":memory:")
		require.NoError(t, db.Open())
		defer db.Close()

		var version int
		err := db.QueryRowContext(context.Background(), "PRAGMA user_version").Scan(&version)
		require.NoError(t, err)
		assert.Equal(t, 1, version)
	})

	t.Run("rejects a newer schema version", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "future.db")
		db := sqlite.NewDB(path)
		require.NoError(t, db.Open())
		_, err := db.ExecContext(context.Background(), "PRAGMA user_version = 99")
		require.NoError(t, err)
		require.NoError(t, db.Close())

		err = sqlite.NewDB(path).Open()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "newer than supported")
	})

	t.Run("reopens an existing database", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "test.db")
		first := sqlite.NewDB(path)
		require.NoError(t, first.Open())
		require.NoError(t, first.Close())

		second := sqlite.NewDB(path)
		require.NoError(t, second.Open())
		require.NoError(t, second.Close())
	})

	t.Run("returns error for invalid path", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB("/nonexistent/path/db.sqlite")
		require.Error(t, db.Open())
	})

	t.Run("enables WAL mode for file-based databases", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(filepath.Join(t.TempDir(), "test.db"))
		require.NoError(t, db.Open())
		defer db.Close()

		var journalMode string
		err := db.QueryRowContext(context.Background(), "PRAGMA journal_mode").Scan(&journalMode)
		require.NoError(t, err)
		assert.Equal(t, "wal", journalMode)
	})
}
