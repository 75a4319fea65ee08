package service

import (
	"context"
	"log/slog"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/session"
	"github.com/pkordes/trip-planner/internal/store"
)

// sessionLifecycle is the session as the planner drives it.
type sessionLifecycle interface {
	Init(ctx context.Context)
	OnChange(fn func(session.Change)) (unsubscribe func())
	IsAnonymous() bool
}

type profileUpserter interface {
	Upsert(ctx context.Context, p domain.Profile) error
}

// Planner reacts to events that originate outside a single request:
// identity changes and remote change notifications.
type Planner struct {
	store    *store.TripStore
	trips    *TripService
	sync     *SyncService
	profiles profileUpserter
	logger   *slog.Logger

	ctx context.Context
}

// NewPlanner constructs a Planner.
func NewPlanner(st *store.TripStore, trips *TripService, syncer *SyncService, profiles profileUpserter, logger *slog.Logger) *Planner {
	return &Planner{store: st, trips: trips, sync: syncer, profiles: profiles, logger: logger, ctx: context.Background()}
}

// Start subscribes to identity changes, initialises the session and loads
// the first trip list. Work triggered by later identity changes runs with
// ctx. The returned function unsubscribes.
func (p *Planner) Start(ctx context.Context, sess sessionLifecycle) func() {
	p.ctx = ctx
	unsubscribe := sess.OnChange(func(c session.Change) {
		p.HandleIdentityChange(p.ctx, c)
	})
	sess.Init(ctx)
	if sess.IsAnonymous() {
		// a restored sign-in already triggered a load through the listener
		if _, err := p.trips.FetchTrips(ctx); err != nil {
			p.logger.Error("initial trip load failed", "error", err)
		}
	}
	return unsubscribe
}

// HandleIdentityChange refreshes the trip list for the new identity. After
// a sign-in the user's profile is recorded and local trips are uploaded
// first.
func (p *Planner) HandleIdentityChange(ctx context.Context, c session.Change) {
	if !c.SignedIn() {
		if _, err := p.trips.FetchTrips(ctx); err != nil {
			p.logger.Error("trip reload after sign-out failed", "error", err)
		}
		return
	}

	id := c.Current
	if err := p.profiles.Upsert(ctx, domain.Profile{ID: id.UserID, Email: id.Email}); err != nil {
		p.logger.Error("profile upsert failed", "user_id", id.UserID, "error", err)
	}
	res, err := p.sync.Sync(ctx)
	if err != nil {
		p.logger.Error("sync after sign-in failed", "user_id", id.UserID, "error", err)
	}
	if res.Refetched {
		return
	}
	if _, err := p.trips.FetchTrips(ctx); err != nil {
		p.logger.Error("trip reload after sign-in failed", "user_id", id.UserID, "error", err)
	}
}

// HandleTripChanged reloads the trip list when another client changed a
// trip that is currently in memory.
func (p *Planner) HandleTripChanged(ctx context.Context, tripID string) {
	if _, ok := p.store.Trip(tripID); !ok {
		return
	}
	p.logger.Debug("remote change, reloading trips", "trip_id", tripID)
	if _, err := p.trips.FetchTrips(ctx); err != nil {
		p.logger.Error("trip reload after remote change failed", "trip_id", tripID, "error", err)
	}
}
