package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/persist"
	"github.com/pkordes/trip-planner/internal/store"
)

// ActivityService manages the itinerary of each day. Activities persist row
// by row, unlike the JSON-column sub-resources.
type ActivityService struct {
	core
}

// NewActivityService constructs an ActivityService.
func NewActivityService(st *store.TripStore, backends backendSelector, logger *slog.Logger) *ActivityService {
	return &ActivityService{core: core{store: st, backends: backends, logger: logger}}
}

// AddActivity appends an activity to a day optimistically. The new activity
// gets domain.AppendOrder so it sorts after its siblings. If the backend
// rejects the write the append is undone and domain.ErrAddActivity returned.
func (s *ActivityService) AddActivity(ctx context.Context, tripID, dayID string, in domain.Activity) (domain.Activity, error) {
	in.ID = uuid.NewString()
	in.TripID = tripID
	in.DayID = dayID
	in.Order = domain.AppendOrder
	if in.Category == "" {
		in.Category = domain.CategoryOther
	}
	if err := in.Validate(); err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.AddActivity: %w", err)
	}
	b := s.backends.Current()

	_, undo, err := s.store.Apply(tripID, store.Mutation{
		Forward: func(t domain.Trip) (domain.Trip, error) {
			return withDay(t, dayID, func(d domain.Day) (domain.Day, error) {
				d.Activities = appendCopy(d.Activities, in)
				return d, nil
			})
		},
		Inverse: func(t domain.Trip) domain.Trip {
			t, _ = withDay(t, dayID, func(d domain.Day) (domain.Day, error) {
				if i := indexByID(d.Activities, in.ID, activityID); i >= 0 {
					d.Activities = removeAt(d.Activities, i)
				}
				return d, nil
			})
			return t
		},
	})
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.AddActivity: %w", err)
	}

	if err := b.InsertActivity(ctx, in); err != nil {
		undo()
		s.logger.Error("activity insert failed, rolled back", "trip_id", tripID, "activity_id", in.ID, "backend", b.Kind(), "error", err)
		return domain.Activity{}, fmt.Errorf("service.ActivityService.AddActivity: %w", domain.ErrAddActivity)
	}
	return in, nil
}

// UpdateActivity patches one activity in place.
func (s *ActivityService) UpdateActivity(ctx context.Context, tripID, dayID, id string, patch domain.ActivityPatch) (domain.Activity, error) {
	b := s.backends.Current()

	var updated domain.Activity
	_, err := s.store.UpdateTrip(tripID, func(t domain.Trip) (domain.Trip, error) {
		return withDay(t, dayID, func(d domain.Day) (domain.Day, error) {
			i := indexByID(d.Activities, id, activityID)
			if i < 0 {
				return d, domain.ErrNotFound
			}
			next := patch.Apply(d.Activities[i])
			if err := next.Validate(); err != nil {
				return d, err
			}
			d.Activities = replaceAt(d.Activities, i, next)
			updated = next
			return d, nil
		})
	})
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.UpdateActivity: %w", err)
	}
	s.persistLogged(ctx, b, "update_activity", tripID, func(b persist.Backend) error {
		return b.UpdateActivity(ctx, updated)
	})
	return updated, nil
}

// RemoveActivity deletes one activity from a day.
func (s *ActivityService) RemoveActivity(ctx context.Context, tripID, dayID, id string) error {
	b := s.backends.Current()

	_, err := s.store.UpdateTrip(tripID, func(t domain.Trip) (domain.Trip, error) {
		return withDay(t, dayID, func(d domain.Day) (domain.Day, error) {
			i := indexByID(d.Activities, id, activityID)
			if i < 0 {
				return d, domain.ErrNotFound
			}
			d.Activities = removeAt(d.Activities, i)
			return d, nil
		})
	})
	if err != nil {
		return fmt.Errorf("service.ActivityService.RemoveActivity: %w", err)
	}
	s.persistLogged(ctx, b, "delete_activity", tripID, func(b persist.Backend) error {
		return b.DeleteActivity(ctx, id)
	})
	return nil
}

// ReorderActivities replaces a day's activity list with the permutation given
// by orderedIDs and renumbers the ranks densely from 0.
// orderedIDs must name every activity of the day exactly once.
func (s *ActivityService) ReorderActivities(ctx context.Context, tripID, dayID string, orderedIDs []string) ([]domain.Activity, error) {
	b := s.backends.Current()

	var reordered []domain.Activity
	_, err := s.store.UpdateTrip(tripID, func(t domain.Trip) (domain.Trip, error) {
		return withDay(t, dayID, func(d domain.Day) (domain.Day, error) {
			next, err := permute(d.Activities, orderedIDs)
			if err != nil {
				return d, err
			}
			d.Activities = next
			reordered = next
			return d, nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("service.ActivityService.ReorderActivities: %w", err)
	}
	s.persistLogged(ctx, b, "reorder_activities", tripID, func(b persist.Backend) error {
		return b.SaveActivityOrder(ctx, reordered)
	})
	return reordered, nil
}

// permute returns current rearranged into the order of ids, with Order set
// to each activity's new position.
func permute(current []domain.Activity, ids []string) ([]domain.Activity, error) {
	if len(ids) != len(current) {
		return nil, fmt.Errorf("%w: expected %d activity ids, got %d", domain.ErrValidation, len(current), len(ids))
	}
	out := make([]domain.Activity, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for rank, id := range ids {
		if seen[id] {
			return nil, fmt.Errorf("%w: activity %s listed twice", domain.ErrValidation, id)
		}
		seen[id] = true
		i := slices.IndexFunc(current, func(a domain.Activity) bool { return a.ID == id })
		if i < 0 {
			return nil, fmt.Errorf("%w: activity %s is not on this day", domain.ErrValidation, id)
		}
		a := current[i]
		a.Order = rank
		out = append(out, a)
	}
	return out, nil
}

func activityID(a domain.Activity) string { return a.ID }
