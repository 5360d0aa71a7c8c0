package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// createTestStore creates a new file-backed SQLite store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// createOnlineTable creates and seeds a sessions table resembling the
// classic "who is online" listing.
func createOnlineTable(t *testing.T, s *Store) *Collection {
	t.Helper()
	ctx := context.Background()

	_, err := s.Exec(ctx, `CREATE TABLE online (
		uid     INTEGER NOT NULL,
		uname   TEXT NOT NULL,
		module  INTEGER NOT NULL,
		ip      TEXT
	)`)
	require.NoError(t, err)

	rows := []struct {
		uid    int
		uname  string
		module int
		ip     any
	}{
		{1, "admin", 1, "10.0.0.1"},
		{2, "alice", 1, "10.0.0.2"},
		{3, "bob", 2, nil},
		{4, "carol", 2, "10.0.0.4"},
		{5, "dave", 3, nil},
	}
	for _, r := range rows {
		_, err := s.Exec(ctx,
			"INSERT INTO online (uid, uname, module, ip) VALUES (?, ?, ?, ?)",
			r.uid, r.uname, r.module, r.ip)
		require.NoError(t, err)
	}

	c, err := s.Collection("online")
	require.NoError(t, err)
	return c
}

// unames extracts the uname column in row order.
func unames(records []Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r["uname"].(string))
	}
	return out
}
