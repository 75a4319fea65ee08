package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/localstore"
)

// snapshotSource is the local snapshot as the sync procedure sees it.
type snapshotSource interface {
	Load(ctx context.Context) (localstore.Snapshot, error)
	Clear(ctx context.Context) error
}

// syncTripRepo is the part of the remote trip repository used for upload.
type syncTripRepo interface {
	Exists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, trip domain.Trip, ownerID string) error
	InsertDays(ctx context.Context, tripID string, days []domain.Day) error
}

type syncActivityRepo interface {
	Upsert(ctx context.Context, activities []domain.Activity) error
}

type syncMemberRepo interface {
	Add(ctx context.Context, tripID, userID string, role domain.Role) error
}

// tripFetcher reloads the in-memory trip list.
type tripFetcher interface {
	FetchTrips(ctx context.Context) ([]domain.Trip, error)
}

// SyncResult reports one run of the local to remote upload.
type SyncResult struct {
	Uploaded int      `json:"uploaded"`
	Skipped  int      `json:"skipped"`
	Failed   []string `json:"failed"`
	// Cleared is true when the local snapshot was emptied.
	Cleared bool `json:"cleared"`
	// Refetched is true when the in-memory list was reloaded from remote.
	Refetched bool `json:"refetched"`
}

// OK reports whether every local trip is now in the remote store.
func (r SyncResult) OK() bool { return len(r.Failed) == 0 }

// SyncService uploads trips created while anonymous to the remote store
// once the user signs in.
type SyncService struct {
	mu sync.Mutex // one run at a time

	session    sessionState
	snapshots  snapshotSource
	trips      syncTripRepo
	activities syncActivityRepo
	members    syncMemberRepo
	fetcher    tripFetcher
	logger     *slog.Logger
}

// NewSyncService constructs a SyncService.
func NewSyncService(sess sessionState, snapshots snapshotSource, trips syncTripRepo, activities syncActivityRepo, members syncMemberRepo, fetcher tripFetcher, logger *slog.Logger) *SyncService {
	return &SyncService{
		session:    sess,
		snapshots:  snapshots,
		trips:      trips,
		activities: activities,
		members:    members,
		fetcher:    fetcher,
		logger:     logger,
	}
}

// Sync uploads every local trip the remote store does not have yet: header,
// days, activities ranked by their position in the day, then the owner
// membership. Trips whose id already exists remotely are skipped, so a run
// can be repeated safely. The local snapshot is cleared only when every trip
// made it, and the trip list is then reloaded from remote.
// An empty snapshot is a no-op.
func (s *SyncService) Sync(ctx context.Context) (SyncResult, error) {
	id := s.session.Identity()
	if id == nil {
		return SyncResult{}, fmt.Errorf("service.SyncService.Sync: %w", domain.ErrAuthRequired)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res := SyncResult{Failed: []string{}}
	snap, err := s.snapshots.Load(ctx)
	if err != nil {
		return res, fmt.Errorf("service.SyncService.Sync: %w", err)
	}
	if snap.Empty() {
		return res, nil
	}

	for _, trip := range snap.Trips {
		uploaded, err := s.uploadTrip(ctx, trip, id.UserID)
		switch {
		case err != nil:
			s.logger.Error("trip sync failed", "trip_id", trip.ID, "error", err)
			res.Failed = append(res.Failed, trip.ID)
		case uploaded:
			res.Uploaded++
		default:
			res.Skipped++
		}
	}

	if res.OK() {
		if err := s.snapshots.Clear(ctx); err != nil {
			s.logger.Error("could not clear local snapshot after sync", "error", err)
		} else {
			res.Cleared = true
		}
	}
	s.logger.Info("local trips synced", "user_id", id.UserID,
		"uploaded", res.Uploaded, "skipped", res.Skipped, "failed", len(res.Failed))

	if _, err := s.fetcher.FetchTrips(ctx); err != nil {
		return res, fmt.Errorf("service.SyncService.Sync: %w", err)
	}
	res.Refetched = true
	return res, nil
}

// uploadTrip writes one trip. It reports false when the trip already exists.
func (s *SyncService) uploadTrip(ctx context.Context, trip domain.Trip, userID string) (bool, error) {
	exists, err := s.trips.Exists(ctx, trip.ID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if err := s.trips.Create(ctx, trip, userID); err != nil {
		return false, err
	}
	if err := s.trips.InsertDays(ctx, trip.ID, trip.Days); err != nil {
		return false, err
	}
	if acts := flattenActivities(trip); len(acts) > 0 {
		if err := s.activities.Upsert(ctx, acts); err != nil {
			return false, err
		}
	}
	if err := s.members.Add(ctx, trip.ID, userID, domain.RoleOwner); err != nil {
		return false, err
	}
	return true, nil
}

// flattenActivities lists every activity of the trip with its back-references
// filled in and its rank set to its position within its day.
func flattenActivities(trip domain.Trip) []domain.Activity {
	var out []domain.Activity
	for _, d := range trip.Days {
		for i, a := range d.Activities {
			a.TripID = trip.ID
			a.DayID = d.ID
			a.Order = i
			out = append(out, a)
		}
	}
	return out
}
