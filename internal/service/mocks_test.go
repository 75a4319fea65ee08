package service_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/localstore"
	"github.com/pkordes/trip-planner/internal/persist"
	"github.com/pkordes/trip-planner/internal/session"
	"github.com/pkordes/trip-planner/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockBackend is a hand-written test double for persist.Backend.
// Unset function fields succeed; every call is recorded by name.
type mockBackend struct {
	mu    sync.Mutex
	calls []string

	loadTrips         func(ctx context.Context) (persist.Loaded, error)
	createTrip        func(ctx context.Context, trip domain.Trip) error
	deleteTrip        func(ctx context.Context, tripID string) error
	updateHeader      func(ctx context.Context, trip domain.Trip) error
	insertActivity    func(ctx context.Context, a domain.Activity) error
	updateActivity    func(ctx context.Context, a domain.Activity) error
	saveActivityOrder func(ctx context.Context, activities []domain.Activity) error
	saveTasks         func(ctx context.Context, trip domain.Trip) error
	saveExpenses      func(ctx context.Context, trip domain.Trip) error
	savePackingList   func(ctx context.Context, trip domain.Trip) error
	savePhotos        func(ctx context.Context, trip domain.Trip) error
	saveWeather       func(ctx context.Context, trip domain.Trip) error
}

var _ persist.Backend = (*mockBackend)(nil)

func (m *mockBackend) record(name string) {
	m.mu.Lock()
	m.calls = append(m.calls, name)
	m.mu.Unlock()
}

func (m *mockBackend) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockBackend) Kind() string { return "mock" }

func (m *mockBackend) LoadTrips(ctx context.Context) (persist.Loaded, error) {
	m.record("LoadTrips")
	if m.loadTrips == nil {
		return persist.Loaded{}, nil
	}
	return m.loadTrips(ctx)
}
func (m *mockBackend) CreateTrip(ctx context.Context, trip domain.Trip) error {
	m.record("CreateTrip")
	return call(ctx, m.createTrip, trip)
}
func (m *mockBackend) DeleteTrip(ctx context.Context, tripID string) error {
	m.record("DeleteTrip")
	return call(ctx, m.deleteTrip, tripID)
}
func (m *mockBackend) UpdateHeader(ctx context.Context, trip domain.Trip) error {
	m.record("UpdateHeader")
	return call(ctx, m.updateHeader, trip)
}
func (m *mockBackend) SaveSelection(context.Context) error {
	m.record("SaveSelection")
	return nil
}
func (m *mockBackend) InsertActivity(ctx context.Context, a domain.Activity) error {
	m.record("InsertActivity")
	return call(ctx, m.insertActivity, a)
}
func (m *mockBackend) UpdateActivity(ctx context.Context, a domain.Activity) error {
	m.record("UpdateActivity")
	return call(ctx, m.updateActivity, a)
}
func (m *mockBackend) DeleteActivity(context.Context, string) error {
	m.record("DeleteActivity")
	return nil
}
func (m *mockBackend) SaveActivityOrder(ctx context.Context, activities []domain.Activity) error {
	m.record("SaveActivityOrder")
	return call(ctx, m.saveActivityOrder, activities)
}
func (m *mockBackend) SaveTasks(ctx context.Context, trip domain.Trip) error {
	m.record("SaveTasks")
	return call(ctx, m.saveTasks, trip)
}
func (m *mockBackend) SaveExpenses(ctx context.Context, trip domain.Trip) error {
	m.record("SaveExpenses")
	return call(ctx, m.saveExpenses, trip)
}
func (m *mockBackend) SavePackingList(ctx context.Context, trip domain.Trip) error {
	m.record("SavePackingList")
	return call(ctx, m.savePackingList, trip)
}
func (m *mockBackend) SavePhotos(ctx context.Context, trip domain.Trip) error {
	m.record("SavePhotos")
	return call(ctx, m.savePhotos, trip)
}
func (m *mockBackend) SaveWeather(ctx context.Context, trip domain.Trip) error {
	m.record("SaveWeather")
	return call(ctx, m.saveWeather, trip)
}

func call[T any](ctx context.Context, fn func(context.Context, T) error, v T) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, v)
}

// fixedSelector always hands out the same backend.
type fixedSelector struct{ b persist.Backend }

func (s fixedSelector) Current() persist.Backend { return s.b }

// fakeSession is a settable session.
type fakeSession struct {
	mu       sync.Mutex
	identity *session.Identity
	loading  bool
}

func signedIn(userID string) *fakeSession {
	return &fakeSession{identity: &session.Identity{UserID: userID, Email: userID + "@example.com"}}
}

func (f *fakeSession) Identity() *session.Identity {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.identity == nil {
		return nil
	}
	id := *f.identity
	return &id
}

func (f *fakeSession) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// mockBlobs is a hand-written test double for the photo blob store.
type mockBlobs struct {
	mu   sync.Mutex
	data map[string][]byte

	deleteErr       error
	deleteByTripErr error
	deletedTrips    []string
}

func newMockBlobs() *mockBlobs { return &mockBlobs{data: map[string][]byte{}} }

func (m *mockBlobs) Save(_ context.Context, _, photoID string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[photoID] = data
	return "blob-" + photoID, nil
}

func (m *mockBlobs) Get(_ context.Context, photoID string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[photoID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

func (m *mockBlobs) Delete(_ context.Context, photoID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.data, photoID)
	return nil
}

func (m *mockBlobs) DeleteByTrip(_ context.Context, tripID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletedTrips = append(m.deletedTrips, tripID)
	return 0, m.deleteByTripErr
}

// mockSnapshots is a hand-written test double for the local snapshot.
type mockSnapshots struct {
	snap    localstore.Snapshot
	loadErr error
	cleared int
}

func (m *mockSnapshots) Load(context.Context) (localstore.Snapshot, error) {
	return m.snap, m.loadErr
}

func (m *mockSnapshots) Clear(context.Context) error {
	m.cleared++
	m.snap = localstore.Snapshot{Trips: []domain.Trip{}}
	return nil
}

// ---- fixtures --------------------------------------------------------------

var day1 = time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)

// newTrip builds a valid trip with the given number of days.
func newTrip(name string, days int) domain.Trip {
	return domain.NewTrip{
		Name:        name,
		Destination: "Tokyo, Japan",
		StartDate:   day1,
		EndDate:     day1.AddDate(0, 0, days-1),
		Budget:      100,
	}.Build(day1)
}

// seeded returns a store holding trips.
func seeded(trips ...domain.Trip) *store.TripStore {
	st := store.New()
	st.Replace(trips, "")
	return st
}
