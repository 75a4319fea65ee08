// Package service contains the business logic of the trip planner.
// Every mutation follows the same path: derive the new nested value, swap it
// into the in-memory store, then persist through the backend the session
// selects. Services never issue SQL and never touch the snapshot directly.
package service

import (
	"context"
	"log/slog"
	"slices"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/persist"
	"github.com/pkordes/trip-planner/internal/session"
	"github.com/pkordes/trip-planner/internal/store"
)

// backendSelector picks the persistence backend for one operation.
type backendSelector interface {
	Current() persist.Backend
}

// sessionState is the part of the session the services read.
type sessionState interface {
	Identity() *session.Identity
	Loading() bool
}

// core is embedded by every service that mutates trips.
type core struct {
	store    *store.TripStore
	backends backendSelector
	logger   *slog.Logger
}

// persistLogged runs a persistence call whose failure must not undo the
// in-memory change. The failure is logged with the backend kind.
func (c core) persistLogged(ctx context.Context, b persist.Backend, op, tripID string, fn func(persist.Backend) error) {
	if err := fn(b); err != nil {
		c.logger.Error("persist failed, keeping in-memory state",
			"op", op, "backend", b.Kind(), "trip_id", tripID, "error", err)
	}
}

// withDay returns a copy of trip whose day dayID has been replaced by fn's
// result. Returns domain.ErrNotFound if the trip has no such day.
func withDay(trip domain.Trip, dayID string, fn func(domain.Day) (domain.Day, error)) (domain.Trip, error) {
	i := trip.FindDay(dayID)
	if i < 0 {
		return trip, domain.ErrNotFound
	}
	day, err := fn(trip.Days[i])
	if err != nil {
		return trip, err
	}
	trip.Days = slices.Clone(trip.Days)
	trip.Days[i] = day
	return trip, nil
}

// indexByID returns the position of the element whose id matches, or -1.
func indexByID[T any](items []T, id string, idOf func(T) string) int {
	return slices.IndexFunc(items, func(v T) bool { return idOf(v) == id })
}

// replaceAt returns a copy of items with position i set to v.
func replaceAt[T any](items []T, i int, v T) []T {
	out := slices.Clone(items)
	out[i] = v
	return out
}

// removeAt returns a copy of items without position i.
func removeAt[T any](items []T, i int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}

// appendCopy returns a copy of items with v appended.
func appendCopy[T any](items []T, v ...T) []T {
	out := make([]T, 0, len(items)+len(v))
	out = append(out, items...)
	return append(out, v...)
}
