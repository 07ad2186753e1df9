package sqlitemigrate

import (
	"context"
	"database/sql"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func count(t *testing.T, db *sql.DB, query string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(query).Scan(&n))
	return n
}

func TestApply_RecordsAndSkips(t *testing.T) {
	db := openDB(t)
	fsys := fstest.MapFS{
		"001_items.sql": {Data: []byte("-- +migrate Up\nCREATE TABLE items(id TEXT PRIMARY KEY);\n-- +migrate Down\nDROP TABLE items;")},
		"002_more.sql":  {Data: []byte("CREATE TABLE more(id TEXT);")},
		"README.md":     {Data: []byte("ignored")},
	}

	require.NoError(t, Apply(context.Background(), db, fsys, ""))
	assert.Equal(t, 2, count(t, db, "SELECT COUNT(*) FROM schema_migrations"))
	assert.Equal(t, 1, count(t, db, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'items'"))

	require.NoError(t, Apply(context.Background(), db, fsys, "."))
	assert.Equal(t, 2, count(t, db, "SELECT COUNT(*) FROM schema_migrations"))
}

func TestApply_FailureRollsBack(t *testing.T) {
	db := openDB(t)
	fsys := fstest.MapFS{
		"001_bad.sql": {Data: []byte("CREATE TABLE ok(id TEXT); NOT SQL;")},
	}

	err := Apply(context.Background(), db, fsys, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "001_bad.sql")
	assert.Equal(t, 0, count(t, db, "SELECT COUNT(*) FROM schema_migrations"))
}

func TestApply_RequiresDB(t *testing.T) {
	assert.Error(t, Apply(context.Background(), nil, fstest.MapFS{}, ""))
}

func TestUpSection(t *testing.T) {
	assert.Equal(t, "\nA\n", UpSection("-- +migrate Up\nA\n-- +migrate Down\nB"))
	assert.Equal(t, "\nA", UpSection("-- +migrate Up\nA"))
	assert.Equal(t, "plain", UpSection("plain"))
}
