// Package persist decides where a mutation lands. Signed-in users write
// through to the remote repositories row by row or column by column;
// anonymous users get the whole in-memory state rewritten into the local
// snapshot. A Selector picks the backend once per operation.
package persist

import (
	"context"
	"log/slog"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/session"
)

// Loaded is what a backend returns for a full fetch.
type Loaded struct {
	Trips []domain.Trip
	// ActiveTripID is only restored by the local backend; nil means "keep
	// whatever selection is in memory if it still exists".
	ActiveTripID *string
}

// Backend is one persistence strategy. Every method is called after the
// in-memory store already holds the new value.
type Backend interface {
	// Kind names the backend in logs: "remote" or "local".
	Kind() string

	LoadTrips(ctx context.Context) (Loaded, error)
	CreateTrip(ctx context.Context, trip domain.Trip) error
	DeleteTrip(ctx context.Context, tripID string) error
	UpdateHeader(ctx context.Context, trip domain.Trip) error
	// SaveSelection persists the active trip id. Only local storage keeps it.
	SaveSelection(ctx context.Context) error

	InsertActivity(ctx context.Context, a domain.Activity) error
	UpdateActivity(ctx context.Context, a domain.Activity) error
	DeleteActivity(ctx context.Context, activityID string) error
	// SaveActivityOrder persists the ranks of every activity of one day.
	SaveActivityOrder(ctx context.Context, activities []domain.Activity) error

	SaveTasks(ctx context.Context, trip domain.Trip) error
	SaveExpenses(ctx context.Context, trip domain.Trip) error
	SavePackingList(ctx context.Context, trip domain.Trip) error
	SavePhotos(ctx context.Context, trip domain.Trip) error
	SaveWeather(ctx context.Context, trip domain.Trip) error
}

// identitySource is the part of the session the selector reads.
type identitySource interface {
	Identity() *session.Identity
}

// Selector returns the backend matching the session at call time.
type Selector struct {
	session identitySource
	remote  RemoteRepos
	local   *Local
	logger  *slog.Logger
}

// NewSelector constructs a Selector.
func NewSelector(s identitySource, remote RemoteRepos, local *Local, logger *slog.Logger) *Selector {
	return &Selector{session: s, remote: remote, local: local, logger: logger}
}

// Current returns the remote backend bound to the signed-in user, or the
// local backend when nobody is signed in.
func (s *Selector) Current() Backend {
	if id := s.session.Identity(); id != nil {
		return NewRemote(s.remote, id.UserID, s.logger)
	}
	return s.local
}
