package localstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/localstore"
)

func newSnapshotStore(t *testing.T) (*localstore.SnapshotStore, *localstore.KV) {
	t.Helper()
	kv := localstore.NewKV(openTestDB(t))
	return localstore.NewSnapshotStore(kv, discardLogger()), kv
}

func TestSnapshotStore_LoadMissingIsEmpty(t *testing.T) {
	s, _ := newSnapshotStore(t)

	snap, err := s.Load(context.Background())

	require.NoError(t, err)
	assert.True(t, snap.Empty())
	assert.NotNil(t, snap.Trips)
	assert.Nil(t, snap.ActiveTripID)
}

func TestSnapshotStore_LoadMalformedIsEmpty(t *testing.T) {
	s, kv := newSnapshotStore(t)
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, localstore.SnapshotKey, []byte(`{"state":{"trips":[{`)))

	snap, err := s.Load(ctx)

	require.NoError(t, err)
	assert.True(t, snap.Empty())
}

func TestSnapshotStore_RoundTrip(t *testing.T) {
	s, _ := newSnapshotStore(t)
	ctx := context.Background()

	trip := domain.NewTrip{
		Name:        "Tokyo Trip",
		Destination: "Tokyo",
		StartDate:   time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC),
	}.Build(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	cost := 12.5
	trip.Days[0].Activities = []domain.Activity{{
		ID: "a1", TripID: trip.ID, DayID: trip.Days[0].ID, Title: "Senso-ji",
		Category: domain.CategoryAttraction, Cost: &cost, Order: 0,
	}}
	active := trip.ID

	require.NoError(t, s.Save(ctx, localstore.Snapshot{Trips: []domain.Trip{trip}, ActiveTripID: &active}))
	got, err := s.Load(ctx)

	require.NoError(t, err)
	require.Len(t, got.Trips, 1)
	assert.Equal(t, trip, got.Trips[0])
	require.NotNil(t, got.ActiveTripID)
	assert.Equal(t, trip.ID, *got.ActiveTripID)
}

func TestSnapshotStore_WritesVersionedEnvelope(t *testing.T) {
	s, kv := newSnapshotStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, localstore.Snapshot{}))

	raw, err := kv.Get(ctx, localstore.SnapshotKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":{"trips":[],"activeTripId":null},"version":0}`, string(raw))
}

func TestSnapshotStore_Clear(t *testing.T) {
	s, _ := newSnapshotStore(t)
	ctx := context.Background()
	id := "t1"
	require.NoError(t, s.Save(ctx, localstore.Snapshot{Trips: []domain.Trip{{ID: id}}, ActiveTripID: &id}))

	require.NoError(t, s.Clear(ctx))

	snap, err := s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, snap.Empty())
	assert.Nil(t, snap.ActiveTripID)
}
