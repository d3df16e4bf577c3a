package db

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
)

// NewTestStore returns a Store backed by a migrated SQLite file in a temp dir.
func NewTestStore(tb testing.TB) Store {
	tb.Helper()
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on", filepath.Join(tb.TempDir(), "boreas.db"))
	conn, err := Open(DriverSQLite, dsn)
	if err != nil {
		tb.Fatalf("open test database: %v", err)
	}
	tb.Cleanup(func() { conn.Close() })

	if err := RunMigrations(context.Background(), conn); err != nil {
		tb.Fatalf("migrate test database: %v", err)
	}
	return NewStore(conn)
}
