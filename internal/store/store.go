// Package store holds the authoritative in-memory trip list. Every
// read-derive-replace step runs under one mutex and swaps the whole list, so
// readers always see a consistent snapshot.
//
// Stored values are shared with readers. Callers must treat trips and their
// nested slices as immutable and build new slices when deriving a change.
package store

import (
	"fmt"
	"slices"
	"sync"

	"github.com/pkordes/trip-planner/internal/domain"
)

// State is one consistent view of the store.
type State struct {
	Trips        []domain.Trip `json:"trips"`
	ActiveTripID string        `json:"activeTripId,omitempty"`
	Loading      bool          `json:"loading"`
}

// ActiveTrip returns the selected trip, if any.
func (s State) ActiveTrip() (domain.Trip, bool) {
	if s.ActiveTripID == "" {
		return domain.Trip{}, false
	}
	return s.Trip(s.ActiveTripID)
}

// Trip returns the trip with the given id.
func (s State) Trip(id string) (domain.Trip, bool) {
	i := slices.IndexFunc(s.Trips, func(t domain.Trip) bool { return t.ID == id })
	if i < 0 {
		return domain.Trip{}, false
	}
	return s.Trips[i], true
}

// Mutation is a reversible change to one trip. Inverse undoes Forward on
// whatever the trip looks like when the undo runs, so changes made by others
// in between survive a rollback.
type Mutation struct {
	Forward func(domain.Trip) (domain.Trip, error)
	Inverse func(domain.Trip) domain.Trip
}

// TripStore is the in-memory aggregate store.
type TripStore struct {
	mu    sync.Mutex
	state State

	subs   map[int]chan State
	nextID int
}

// New constructs an empty TripStore.
func New() *TripStore {
	return &TripStore{
		state: State{Trips: []domain.Trip{}},
		subs:  make(map[int]chan State),
	}
}

// Snapshot returns the current state.
func (s *TripStore) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyState()
}

// Trip returns the trip with the given id from the current state.
func (s *TripStore) Trip(id string) (domain.Trip, bool) {
	return s.Snapshot().Trip(id)
}

// Replace swaps in a whole new trip list and active selection.
func (s *TripStore) Replace(trips []domain.Trip, activeTripID string) {
	if trips == nil {
		trips = []domain.Trip{}
	}
	s.commit(func(st *State) {
		st.Trips = trips
		st.ActiveTripID = activeTripID
	})
}

// SetLoading flips the loading flag.
func (s *TripStore) SetLoading(loading bool) {
	s.commit(func(st *State) { st.Loading = loading })
}

// Update runs fn on the current state and stores its result. fn runs under
// the store lock and must not call back into the store. When fn fails the
// state is left untouched.
func (s *TripStore) Update(fn func(State) (State, error)) (State, error) {
	s.mu.Lock()
	next, err := fn(s.copyState())
	if err != nil {
		s.mu.Unlock()
		return State{}, err
	}
	if next.Trips == nil {
		next.Trips = []domain.Trip{}
	}
	s.state = next
	out := s.copyState()
	s.publishLocked(out)
	s.mu.Unlock()
	return out, nil
}

// UpdateTrip replaces the trip with the given id by fn's result and returns it.
// Returns domain.ErrNotFound if the trip is not in memory.
func (s *TripStore) UpdateTrip(id string, fn func(domain.Trip) (domain.Trip, error)) (domain.Trip, error) {
	var updated domain.Trip
	_, err := s.Update(func(st State) (State, error) {
		i := slices.IndexFunc(st.Trips, func(t domain.Trip) bool { return t.ID == id })
		if i < 0 {
			return st, fmt.Errorf("trip %s: %w", id, domain.ErrNotFound)
		}
		next, err := fn(st.Trips[i])
		if err != nil {
			return st, err
		}
		st.Trips[i] = next
		updated = next
		return st, nil
	})
	if err != nil {
		return domain.Trip{}, err
	}
	return updated, nil
}

// Apply runs m.Forward on the trip and returns an undo function that runs
// m.Inverse on the trip as it is at undo time. Undo is a no-op when the trip
// has been removed meanwhile.
func (s *TripStore) Apply(id string, m Mutation) (domain.Trip, func(), error) {
	updated, err := s.UpdateTrip(id, m.Forward)
	if err != nil {
		return domain.Trip{}, func() {}, err
	}
	undo := func() {
		_, _ = s.UpdateTrip(id, func(t domain.Trip) (domain.Trip, error) {
			return m.Inverse(t), nil
		})
	}
	return updated, undo, nil
}

// Subscribe returns a channel receiving the latest state after every change.
// Slow subscribers only ever see the most recent state. Call the returned
// function to release the subscription; it closes the channel.
func (s *TripStore) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

func (s *TripStore) commit(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	s.publishLocked(s.copyState())
	s.mu.Unlock()
}

// publishLocked delivers st to every subscriber, replacing an undelivered
// older state. Must be called with mu held so states arrive in commit order.
func (s *TripStore) publishLocked(st State) {
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- st:
		default:
		}
	}
}

// copyState copies the top-level trip slice so callers can swap elements
// without touching the stored list. Must be called with mu held.
func (s *TripStore) copyState() State {
	st := s.state
	st.Trips = slices.Clone(s.state.Trips)
	if st.Trips == nil {
		st.Trips = []domain.Trip{}
	}
	return st
}
