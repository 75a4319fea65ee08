package repo_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/testutil"
)

func activityFixture(trip domain.Trip, title string, order int) domain.Activity {
	return domain.Activity{
		ID:       uuid.NewString(),
		TripID:   trip.ID,
		DayID:    trip.Days[0].ID,
		Title:    title,
		Category: domain.CategoryAttraction,
		Order:    order,
	}
}

func TestActivityRepo_InsertOrdersByRank(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	owner := testutil.SeedProfile(t, r.tx, "act@example.com")
	trip := testutil.TokyoTrip(time.Now())
	createTrip(t, r, trip, owner.ID)

	cost := 15.0
	second := activityFixture(trip, "Second", domain.AppendOrder)
	first := activityFixture(trip, "First", 0)
	first.Cost = &cost
	first.Location = &domain.Location{Name: "Senso-ji", Lat: 35.71, Lng: 139.79}
	require.NoError(t, r.activities.Insert(ctx, second))
	require.NoError(t, r.activities.Insert(ctx, first))

	got, err := r.trips.ListForUser(ctx, owner.ID)
	require.NoError(t, err)
	acts := got[0].Days[0].Activities
	require.Len(t, acts, 2)
	assert.Equal(t, "First", acts[0].Title)
	assert.Equal(t, first.Location, acts[0].Location)
	require.NotNil(t, acts[0].Cost)
	assert.InDelta(t, 15, *acts[0].Cost, 1e-9)
	assert.Equal(t, "Second", acts[1].Title)
}

// Appended activities share one rank; they must come back in the order they
// were inserted, whatever their ids.
func TestActivityRepo_AppendedActivitiesKeepInsertionOrder(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	owner := testutil.SeedProfile(t, r.tx, "append@example.com")
	trip := testutil.TokyoTrip(time.Now())
	createTrip(t, r, trip, owner.ID)

	titles := []string{"Breakfast", "Museum", "Lunch", "Park", "Dinner", "Bar"}
	for i, title := range titles {
		a := activityFixture(trip, title, domain.AppendOrder)
		// ids sort against insertion order
		a.ID = fmt.Sprintf("%02d-%s", len(titles)-i, uuid.NewString())
		require.NoError(t, r.activities.Insert(ctx, a))
	}

	got, err := r.trips.ListForUser(ctx, owner.ID)
	require.NoError(t, err)
	acts := got[0].Days[0].Activities
	require.Len(t, acts, len(titles))
	for i, a := range acts {
		assert.Equal(t, titles[i], a.Title, "position %d", i)
	}
}

func TestActivityRepo_UpsertRewritesRanks(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	owner := testutil.SeedProfile(t, r.tx, "upsert@example.com")
	trip := testutil.TokyoTrip(time.Now())
	createTrip(t, r, trip, owner.ID)

	a := activityFixture(trip, "A", 0)
	b := activityFixture(trip, "B", 1)
	require.NoError(t, r.activities.Upsert(ctx, []domain.Activity{a, b}))

	a.Order, b.Order = 1, 0
	require.NoError(t, r.activities.Upsert(ctx, []domain.Activity{b, a}))

	got, err := r.trips.ListForUser(ctx, owner.ID)
	require.NoError(t, err)
	acts := got[0].Days[0].Activities
	require.Len(t, acts, 2)
	assert.Equal(t, []string{"B", "A"}, []string{acts[0].Title, acts[1].Title})
	assert.Equal(t, []int{0, 1}, []int{acts[0].Order, acts[1].Order})
}

func TestActivityRepo_UpdateAndDelete(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	owner := testutil.SeedProfile(t, r.tx, "upd@example.com")
	trip := testutil.TokyoTrip(time.Now())
	createTrip(t, r, trip, owner.ID)

	a := activityFixture(trip, "Lunch", 0)
	require.NoError(t, r.activities.Insert(ctx, a))

	a.Title = "Dinner"
	a.Category = domain.CategoryRestaurant
	require.NoError(t, r.activities.Update(ctx, a))

	got, err := r.trips.ListForUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dinner", got[0].Days[0].Activities[0].Title)

	require.NoError(t, r.activities.Delete(ctx, a.ID))
	require.NoError(t, r.activities.Delete(ctx, a.ID), "delete is idempotent")
	assert.ErrorIs(t, r.activities.Update(ctx, a), domain.ErrNotFound)
}
