package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/trip-planner/internal/domain"
)

// execer is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// SeedProfile inserts a profile with a random id. Trips reference their
// owner's profile, so every remote trip fixture needs one first.
func SeedProfile(t *testing.T, db execer, email string) domain.Profile {
	t.Helper()
	p := domain.Profile{ID: uuid.NewString(), Email: email, DisplayName: "Test User"}
	_, err := db.Exec(context.Background(),
		`INSERT INTO profiles (id, email, display_name) VALUES ($1, $2, $3)`,
		p.ID, p.Email, p.DisplayName)
	if err != nil {
		t.Fatalf("testutil.SeedProfile(%s): %v", email, err)
	}
	return p
}

// TokyoTrip returns the three-day "Tokyo Trip" (2025-04-01..03) built the
// way the trip service builds new trips.
func TokyoTrip(createdAt time.Time) domain.Trip {
	return domain.NewTrip{
		Name:        "Tokyo Trip",
		Destination: "Tokyo, Japan",
		StartDate:   time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC),
		Budget:      1500,
	}.Build(createdAt)
}
