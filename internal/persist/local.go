package persist

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/localstore"
	"github.com/pkordes/trip-planner/internal/store"
)

// snapshotStore is the local snapshot storage.
type snapshotStore interface {
	Load(ctx context.Context) (localstore.Snapshot, error)
	Save(ctx context.Context, snap localstore.Snapshot) error
}

// stateSource provides the in-memory state the snapshot is written from.
type stateSource interface {
	Snapshot() store.State
}

// Local persists by rewriting the whole device snapshot from memory. Writes
// are serialised and each one reads the state inside the lock, so the last
// write to land always carries the latest in-memory state.
type Local struct {
	snapshots snapshotStore
	state     stateSource
	mu        sync.Mutex
}

// NewLocal constructs a Local backend.
func NewLocal(snapshots snapshotStore, state stateSource) *Local {
	return &Local{snapshots: snapshots, state: state}
}

// Kind implements Backend.
func (l *Local) Kind() string { return "local" }

// LoadTrips returns the snapshot verbatim, active selection included.
func (l *Local) LoadTrips(ctx context.Context) (Loaded, error) {
	snap, err := l.snapshots.Load(ctx)
	if err != nil {
		return Loaded{}, fmt.Errorf("persist.Local.LoadTrips: %w", err)
	}
	active := snap.ActiveTripID
	if active == nil {
		empty := ""
		active = &empty
	}
	return Loaded{Trips: snap.Trips, ActiveTripID: active}, nil
}

// Flush writes the current in-memory state to the snapshot.
func (l *Local) Flush(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	st := l.state.Snapshot()
	snap := localstore.Snapshot{Trips: st.Trips}
	if st.ActiveTripID != "" {
		id := st.ActiveTripID
		snap.ActiveTripID = &id
	}
	if err := l.snapshots.Save(ctx, snap); err != nil {
		return fmt.Errorf("persist.Local.Flush: %w", err)
	}
	return nil
}

// Every mutation below is a full rewrite.

func (l *Local) CreateTrip(ctx context.Context, _ domain.Trip) error   { return l.Flush(ctx) }
func (l *Local) DeleteTrip(ctx context.Context, _ string) error        { return l.Flush(ctx) }
func (l *Local) UpdateHeader(ctx context.Context, _ domain.Trip) error { return l.Flush(ctx) }
func (l *Local) SaveSelection(ctx context.Context) error               { return l.Flush(ctx) }

func (l *Local) InsertActivity(ctx context.Context, _ domain.Activity) error { return l.Flush(ctx) }
func (l *Local) UpdateActivity(ctx context.Context, _ domain.Activity) error { return l.Flush(ctx) }
func (l *Local) DeleteActivity(ctx context.Context, _ string) error          { return l.Flush(ctx) }
func (l *Local) SaveActivityOrder(ctx context.Context, _ []domain.Activity) error {
	return l.Flush(ctx)
}

func (l *Local) SaveTasks(ctx context.Context, _ domain.Trip) error       { return l.Flush(ctx) }
func (l *Local) SaveExpenses(ctx context.Context, _ domain.Trip) error    { return l.Flush(ctx) }
func (l *Local) SavePackingList(ctx context.Context, _ domain.Trip) error { return l.Flush(ctx) }
func (l *Local) SavePhotos(ctx context.Context, _ domain.Trip) error      { return l.Flush(ctx) }
func (l *Local) SaveWeather(ctx context.Context, _ domain.Trip) error     { return l.Flush(ctx) }
