package persist

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

// RemoteRepos groups the repositories the remote backend writes through.
type RemoteRepos struct {
	Trips      repo.TripRepo
	Activities repo.ActivityRepo
	Members    repo.MemberRepo
}

// Remote persists to the remote repositories on behalf of one user.
type Remote struct {
	repos  RemoteRepos
	userID string
	logger *slog.Logger
}

// NewRemote constructs a Remote backend acting as userID.
func NewRemote(repos RemoteRepos, userID string, logger *slog.Logger) *Remote {
	return &Remote{repos: repos, userID: userID, logger: logger}
}

// Kind implements Backend.
func (r *Remote) Kind() string { return "remote" }

// LoadTrips returns every trip the user owns or is a member of.
func (r *Remote) LoadTrips(ctx context.Context) (Loaded, error) {
	trips, err := r.repos.Trips.ListForUser(ctx, r.userID)
	if err != nil {
		return Loaded{}, fmt.Errorf("persist.Remote.LoadTrips: %w", err)
	}
	return Loaded{Trips: trips}, nil
}

// CreateTrip inserts the header, then the days, then the owner membership.
// Only a failed header insert is returned; later failures are logged and the
// partially written trip is left in place.
func (r *Remote) CreateTrip(ctx context.Context, trip domain.Trip) error {
	if err := r.repos.Trips.Create(ctx, trip, r.userID); err != nil {
		return fmt.Errorf("persist.Remote.CreateTrip: %w", err)
	}
	if err := r.repos.Trips.InsertDays(ctx, trip.ID, trip.Days); err != nil {
		r.logger.Error("trip created without days", "trip_id", trip.ID, "error", err)
	}
	if err := r.repos.Members.Add(ctx, trip.ID, r.userID, domain.RoleOwner); err != nil {
		r.logger.Error("trip created without owner membership", "trip_id", trip.ID, "error", err)
	}
	return nil
}

// DeleteTrip removes the trip row; the repository cascades the rest.
func (r *Remote) DeleteTrip(ctx context.Context, tripID string) error {
	if err := r.repos.Trips.Delete(ctx, tripID); err != nil {
		return fmt.Errorf("persist.Remote.DeleteTrip: %w", err)
	}
	return nil
}

// UpdateHeader implements Backend.
func (r *Remote) UpdateHeader(ctx context.Context, trip domain.Trip) error {
	if err := r.repos.Trips.UpdateHeader(ctx, trip); err != nil {
		return fmt.Errorf("persist.Remote.UpdateHeader: %w", err)
	}
	return nil
}

// SaveSelection is a no-op: the selection is never stored remotely.
func (r *Remote) SaveSelection(context.Context) error { return nil }

// InsertActivity implements Backend.
func (r *Remote) InsertActivity(ctx context.Context, a domain.Activity) error {
	if err := r.repos.Activities.Insert(ctx, a); err != nil {
		return fmt.Errorf("persist.Remote.InsertActivity: %w", err)
	}
	return nil
}

// UpdateActivity implements Backend.
func (r *Remote) UpdateActivity(ctx context.Context, a domain.Activity) error {
	if err := r.repos.Activities.Update(ctx, a); err != nil {
		return fmt.Errorf("persist.Remote.UpdateActivity: %w", err)
	}
	return nil
}

// DeleteActivity implements Backend.
func (r *Remote) DeleteActivity(ctx context.Context, activityID string) error {
	if err := r.repos.Activities.Delete(ctx, activityID); err != nil {
		return fmt.Errorf("persist.Remote.DeleteActivity: %w", err)
	}
	return nil
}

// SaveActivityOrder upserts every activity with its current rank.
func (r *Remote) SaveActivityOrder(ctx context.Context, activities []domain.Activity) error {
	if err := r.repos.Activities.Upsert(ctx, activities); err != nil {
		return fmt.Errorf("persist.Remote.SaveActivityOrder: %w", err)
	}
	return nil
}

// SaveTasks implements Backend.
func (r *Remote) SaveTasks(ctx context.Context, trip domain.Trip) error {
	if err := r.repos.Trips.SaveTasks(ctx, trip.ID, trip.Tasks); err != nil {
		return fmt.Errorf("persist.Remote.SaveTasks: %w", err)
	}
	return nil
}

// SaveExpenses implements Backend.
func (r *Remote) SaveExpenses(ctx context.Context, trip domain.Trip) error {
	if err := r.repos.Trips.SaveExpenses(ctx, trip.ID, trip.Expenses); err != nil {
		return fmt.Errorf("persist.Remote.SaveExpenses: %w", err)
	}
	return nil
}

// SavePackingList implements Backend.
func (r *Remote) SavePackingList(ctx context.Context, trip domain.Trip) error {
	if err := r.repos.Trips.SavePackingList(ctx, trip.ID, trip.PackingList); err != nil {
		return fmt.Errorf("persist.Remote.SavePackingList: %w", err)
	}
	return nil
}

// SavePhotos implements Backend.
func (r *Remote) SavePhotos(ctx context.Context, trip domain.Trip) error {
	if err := r.repos.Trips.SavePhotos(ctx, trip.ID, trip.Photos); err != nil {
		return fmt.Errorf("persist.Remote.SavePhotos: %w", err)
	}
	return nil
}

// SaveWeather implements Backend.
func (r *Remote) SaveWeather(ctx context.Context, trip domain.Trip) error {
	if trip.WeatherLastUpdated == nil {
		return fmt.Errorf("persist.Remote.SaveWeather: %w: missing fetch time", domain.ErrValidation)
	}
	err := r.repos.Trips.SaveWeather(ctx, trip.ID, trip.Weather, *trip.WeatherLastUpdated, trip.Coordinates)
	if err != nil {
		return fmt.Errorf("persist.Remote.SaveWeather: %w", err)
	}
	return nil
}
