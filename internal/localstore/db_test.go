package localstore_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/localstore"
	"github.com/pkordes/trip-planner/testutil"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return testutil.NewLocalDB(t)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpen_MigrationsAreIdempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, localstore.Migrate(context.Background(), db))

	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('kv', 'photo_blobs')`).Scan(&n)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}
