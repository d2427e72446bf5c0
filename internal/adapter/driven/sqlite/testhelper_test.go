package sqlite

import (
	"database/sql"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

// setupTestDB opens a migrated shared in-memory ledger named after the test.
// WAL does not apply to in-memory databases, so the DSN omits journal_mode.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := fmt.Sprintf(
		"file:ledger-%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)",
		url.PathEscape(t.Name()),
	)

	open := func(maxConns int) *sql.DB {
		conn, err := sql.Open("sqlite", dsn)
		require.NoError(t, err)
		conn.SetMaxOpenConns(maxConns)
		require.NoError(t, conn.Ping())
		t.Cleanup(func() { _ = conn.Close() })
		return conn
	}

	db := &DB{Writer: open(1), Reader: open(4), path: dsn}
	require.NoError(t, RunMigrations(db.Writer))

	return db
}

// setupHistoryRepo returns a HistoryRepo over a fresh test database.
func setupHistoryRepo(t *testing.T) *HistoryRepo {
	t.Helper()
	return NewHistoryRepo(setupTestDB(t))
}
