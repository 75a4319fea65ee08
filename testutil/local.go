package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/pkordes/trip-planner/internal/localstore"
)

// NewLocalDB opens a migrated in-memory SQLite database for the device-local
// store. Unlike NewPool it never skips: SQLite needs no external service.
// The database is closed automatically when the test finishes.
func NewLocalDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := localstore.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("testutil.NewLocalDB: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}
