package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/pkordes/trip-planner/internal/domain"
)

// SnapshotKey is the key/value entry holding the serialised trip snapshot.
const SnapshotKey = "trip-storage"

// snapshotVersion is written into every envelope. Readers ignore it.
const snapshotVersion = 0

// Snapshot is everything an anonymous user has planned on this device.
type Snapshot struct {
	Trips        []domain.Trip `json:"trips"`
	ActiveTripID *string       `json:"activeTripId"`
}

type envelope struct {
	State   Snapshot `json:"state"`
	Version int      `json:"version"`
}

// Empty reports whether the snapshot carries no trips.
func (s Snapshot) Empty() bool {
	return len(s.Trips) == 0
}

// SnapshotStore reads and rewrites the trip snapshot as one unit.
type SnapshotStore struct {
	kv     *KV
	logger *slog.Logger
}

// NewSnapshotStore constructs a SnapshotStore over kv.
func NewSnapshotStore(kv *KV, logger *slog.Logger) *SnapshotStore {
	return &SnapshotStore{kv: kv, logger: logger}
}

// Load returns the stored snapshot. A missing entry and an entry that does
// not decode both yield an empty snapshot; the latter is logged. Only a
// failure of the underlying store is returned as an error.
func (s *SnapshotStore) Load(ctx context.Context) (Snapshot, error) {
	raw, err := s.kv.Get(ctx, SnapshotKey)
	if err != nil {
		return emptySnapshot(), fmt.Errorf("localstore.SnapshotStore.Load: %w", err)
	}
	if raw == nil {
		return emptySnapshot(), nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		s.logger.Warn("discarding unreadable local snapshot", "error", err)
		return emptySnapshot(), nil
	}
	if env.State.Trips == nil {
		env.State.Trips = []domain.Trip{}
	}
	return env.State, nil
}

// Save replaces the stored snapshot with snap.
func (s *SnapshotStore) Save(ctx context.Context, snap Snapshot) error {
	if snap.Trips == nil {
		snap.Trips = []domain.Trip{}
	}
	raw, err := json.Marshal(envelope{State: snap, Version: snapshotVersion})
	if err != nil {
		return fmt.Errorf("localstore.SnapshotStore.Save: encode: %w", err)
	}
	if err := s.kv.Set(ctx, SnapshotKey, raw); err != nil {
		return fmt.Errorf("localstore.SnapshotStore.Save: %w", err)
	}
	return nil
}

// Clear resets the snapshot to zero trips and no active selection.
func (s *SnapshotStore) Clear(ctx context.Context) error {
	if err := s.Save(ctx, emptySnapshot()); err != nil {
		return fmt.Errorf("localstore.SnapshotStore.Clear: %w", err)
	}
	return nil
}

func emptySnapshot() Snapshot {
	return Snapshot{Trips: []domain.Trip{}}
}
