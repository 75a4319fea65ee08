package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/persist"
	"github.com/pkordes/trip-planner/internal/store"
)

// blobCleaner removes the photo bytes of a deleted trip.
type blobCleaner interface {
	DeleteByTrip(ctx context.Context, tripID string) (int64, error)
}

// TripService implements trip-level operations: fetch, create, select,
// update and delete.
type TripService struct {
	core
	session sessionState
	blobs   blobCleaner
	now     func() time.Time
}

// NewTripService constructs a TripService.
func NewTripService(st *store.TripStore, backends backendSelector, sess sessionState, blobs blobCleaner, logger *slog.Logger) *TripService {
	return &TripService{
		core:    core{store: st, backends: backends, logger: logger},
		session: sess,
		blobs:   blobs,
		now:     time.Now,
	}
}

// State returns the current in-memory state.
func (s *TripService) State() store.State {
	return s.store.Snapshot()
}

// Get returns one trip from memory.
// Returns domain.ErrNotFound if it is not loaded.
func (s *TripService) Get(_ context.Context, id string) (domain.Trip, error) {
	trip, ok := s.store.Trip(id)
	if !ok {
		return domain.Trip{}, fmt.Errorf("service.TripService.Get: %w", domain.ErrNotFound)
	}
	return trip, nil
}

// FetchTrips reloads the whole trip list from the current backend and
// replaces the in-memory list with it. Calls are not deduplicated.
// Returns domain.ErrSessionLoading while the session is still initialising.
func (s *TripService) FetchTrips(ctx context.Context) ([]domain.Trip, error) {
	if s.session.Loading() {
		return nil, fmt.Errorf("service.TripService.FetchTrips: %w", domain.ErrSessionLoading)
	}
	b := s.backends.Current()

	s.store.SetLoading(true)
	defer s.store.SetLoading(false)

	loaded, err := b.LoadTrips(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.FetchTrips: %w", err)
	}

	st, err := s.store.Update(func(st store.State) (store.State, error) {
		st.Trips = loaded.Trips
		switch {
		case loaded.ActiveTripID != nil:
			st.ActiveTripID = *loaded.ActiveTripID
		case !slices.ContainsFunc(st.Trips, func(t domain.Trip) bool { return t.ID == st.ActiveTripID }):
			st.ActiveTripID = ""
		}
		return st, nil
	})
	if err != nil {
		return nil, fmt.Errorf("service.TripService.FetchTrips: %w", err)
	}
	s.logger.Debug("trips fetched", "backend", b.Kind(), "count", len(st.Trips))
	return st.Trips, nil
}

// AddTrip validates in, derives the day list and stores the new trip.
// The trip is added to memory first and removed again when the backend
// rejects it, in which case "" and the error are returned.
func (s *TripService) AddTrip(ctx context.Context, in domain.NewTrip) (string, error) {
	if err := in.Validate(); err != nil {
		return "", fmt.Errorf("service.TripService.AddTrip: %w", err)
	}
	trip := in.Build(s.now())
	signedIn := false
	if id := s.session.Identity(); id != nil {
		signedIn = true
		trip.OwnerID = id.UserID
		trip.Members = []domain.Member{{
			TripID:  trip.ID,
			UserID:  id.UserID,
			Role:    domain.RoleOwner,
			Profile: domain.Profile{ID: id.UserID, Email: id.Email},
		}}
	}
	b := s.backends.Current()

	// remote lists are newest first, the local snapshot keeps insertion order
	if _, err := s.store.Update(func(st store.State) (store.State, error) {
		if signedIn {
			st.Trips = slices.Insert(slices.Clone(st.Trips), 0, trip)
		} else {
			st.Trips = appendCopy(st.Trips, trip)
		}
		return st, nil
	}); err != nil {
		return "", fmt.Errorf("service.TripService.AddTrip: %w", err)
	}

	if err := b.CreateTrip(ctx, trip); err != nil {
		s.dropTrip(trip.ID)
		return "", fmt.Errorf("service.TripService.AddTrip: %w", err)
	}
	s.logger.Info("trip created", "trip_id", trip.ID, "backend", b.Kind(), "days", len(trip.Days))
	return trip.ID, nil
}

// SetActiveTrip selects a trip, or clears the selection when id is "".
// The selection is in-memory; only the local backend persists it.
func (s *TripService) SetActiveTrip(ctx context.Context, id string) error {
	b := s.backends.Current()
	_, err := s.store.Update(func(st store.State) (store.State, error) {
		if id != "" {
			if _, ok := st.Trip(id); !ok {
				return st, domain.ErrNotFound
			}
		}
		st.ActiveTripID = id
		return st, nil
	})
	if err != nil {
		return fmt.Errorf("service.TripService.SetActiveTrip: %w", err)
	}
	s.persistLogged(ctx, b, "save_selection", id, func(b persist.Backend) error {
		return b.SaveSelection(ctx)
	})
	return nil
}

// UpdateTrip applies a header patch. A persistence failure is logged and
// the in-memory change is kept.
func (s *TripService) UpdateTrip(ctx context.Context, id string, patch domain.TripPatch) (domain.Trip, error) {
	b := s.backends.Current()
	updated, err := s.store.UpdateTrip(id, patch.Apply)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.UpdateTrip: %w", err)
	}
	s.persistLogged(ctx, b, "update_header", id, func(b persist.Backend) error {
		return b.UpdateHeader(ctx, updated)
	})
	return updated, nil
}

// DeleteTrip removes a trip and clears the selection if it was active.
// When the backend refuses, the trip is put back and the error returned.
// The trip's photo bytes are removed from the device afterwards.
func (s *TripService) DeleteTrip(ctx context.Context, id string) error {
	b := s.backends.Current()

	var (
		removed   domain.Trip
		position  int
		wasActive bool
	)
	_, err := s.store.Update(func(st store.State) (store.State, error) {
		position = indexByID(st.Trips, id, tripIDOf)
		if position < 0 {
			return st, domain.ErrNotFound
		}
		removed = st.Trips[position]
		st.Trips = removeAt(st.Trips, position)
		if st.ActiveTripID == id {
			st.ActiveTripID = ""
			wasActive = true
		}
		return st, nil
	})
	if err != nil {
		return fmt.Errorf("service.TripService.DeleteTrip: %w", err)
	}

	if err := b.DeleteTrip(ctx, id); err != nil {
		s.restoreTrip(removed, position, wasActive)
		return fmt.Errorf("service.TripService.DeleteTrip: %w", err)
	}

	if s.blobs != nil {
		if n, err := s.blobs.DeleteByTrip(ctx, id); err != nil {
			s.logger.Warn("could not remove photo blobs of deleted trip", "trip_id", id, "error", err)
		} else if n > 0 {
			s.logger.Debug("photo blobs removed", "trip_id", id, "count", n)
		}
	}
	s.logger.Info("trip deleted", "trip_id", id, "backend", b.Kind())
	return nil
}

// dropTrip removes a trip from memory without persisting.
func (s *TripService) dropTrip(id string) {
	_, _ = s.store.Update(func(st store.State) (store.State, error) {
		if i := indexByID(st.Trips, id, tripIDOf); i >= 0 {
			st.Trips = removeAt(st.Trips, i)
		}
		if st.ActiveTripID == id {
			st.ActiveTripID = ""
		}
		return st, nil
	})
}

// restoreTrip puts a removed trip back at its old position.
func (s *TripService) restoreTrip(trip domain.Trip, position int, active bool) {
	_, _ = s.store.Update(func(st store.State) (store.State, error) {
		if indexByID(st.Trips, trip.ID, tripIDOf) >= 0 {
			return st, nil
		}
		position = min(position, len(st.Trips))
		st.Trips = slices.Insert(slices.Clone(st.Trips), position, trip)
		if active && st.ActiveTripID == "" {
			st.ActiveTripID = trip.ID
		}
		return st, nil
	})
}

func tripIDOf(t domain.Trip) string { return t.ID }
