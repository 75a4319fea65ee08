package persist_test

import (
	"context"
	"time"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

// mockTripRepo is a hand-written test double for repo.TripRepo.
// Each method is a function field; set only the ones your test needs.
type mockTripRepo struct {
	listForUser     func(ctx context.Context, userID string) ([]domain.Trip, error)
	create          func(ctx context.Context, trip domain.Trip, ownerID string) error
	insertDays      func(ctx context.Context, tripID string, days []domain.Day) error
	exists          func(ctx context.Context, id string) (bool, error)
	updateHeader    func(ctx context.Context, trip domain.Trip) error
	saveTasks       func(ctx context.Context, tripID string, tasks []domain.Task) error
	saveExpenses    func(ctx context.Context, tripID string, expenses []domain.Expense) error
	savePackingList func(ctx context.Context, tripID string, items []domain.PackingItem) error
	savePhotos      func(ctx context.Context, tripID string, photos []domain.Photo) error
	saveWeather     func(ctx context.Context, tripID string, weather []domain.WeatherDay, updatedAt time.Time, coords *domain.Coordinates) error
	delete          func(ctx context.Context, id string) error
}

func (m *mockTripRepo) ListForUser(ctx context.Context, userID string) ([]domain.Trip, error) {
	return m.listForUser(ctx, userID)
}
func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip, ownerID string) error {
	return m.create(ctx, trip, ownerID)
}
func (m *mockTripRepo) InsertDays(ctx context.Context, tripID string, days []domain.Day) error {
	return m.insertDays(ctx, tripID, days)
}
func (m *mockTripRepo) Exists(ctx context.Context, id string) (bool, error) {
	return m.exists(ctx, id)
}
func (m *mockTripRepo) UpdateHeader(ctx context.Context, trip domain.Trip) error {
	return m.updateHeader(ctx, trip)
}
func (m *mockTripRepo) SaveTasks(ctx context.Context, tripID string, tasks []domain.Task) error {
	return m.saveTasks(ctx, tripID, tasks)
}
func (m *mockTripRepo) SaveExpenses(ctx context.Context, tripID string, expenses []domain.Expense) error {
	return m.saveExpenses(ctx, tripID, expenses)
}
func (m *mockTripRepo) SavePackingList(ctx context.Context, tripID string, items []domain.PackingItem) error {
	return m.savePackingList(ctx, tripID, items)
}
func (m *mockTripRepo) SavePhotos(ctx context.Context, tripID string, photos []domain.Photo) error {
	return m.savePhotos(ctx, tripID, photos)
}
func (m *mockTripRepo) SaveWeather(ctx context.Context, tripID string, weather []domain.WeatherDay, updatedAt time.Time, coords *domain.Coordinates) error {
	return m.saveWeather(ctx, tripID, weather, updatedAt, coords)
}
func (m *mockTripRepo) Delete(ctx context.Context, id string) error {
	return m.delete(ctx, id)
}

// mockActivityRepo is a hand-written test double for repo.ActivityRepo.
type mockActivityRepo struct {
	insert func(ctx context.Context, a domain.Activity) error
	update func(ctx context.Context, a domain.Activity) error
	delete func(ctx context.Context, id string) error
	upsert func(ctx context.Context, activities []domain.Activity) error
}

func (m *mockActivityRepo) Insert(ctx context.Context, a domain.Activity) error {
	return m.insert(ctx, a)
}
func (m *mockActivityRepo) Update(ctx context.Context, a domain.Activity) error {
	return m.update(ctx, a)
}
func (m *mockActivityRepo) Delete(ctx context.Context, id string) error { return m.delete(ctx, id) }
func (m *mockActivityRepo) Upsert(ctx context.Context, activities []domain.Activity) error {
	return m.upsert(ctx, activities)
}

// mockMemberRepo is a hand-written test double for repo.MemberRepo.
type mockMemberRepo struct {
	add        func(ctx context.Context, tripID, userID string, role domain.Role) error
	listByTrip func(ctx context.Context, tripID string) ([]domain.Member, error)
	updateRole func(ctx context.Context, tripID, userID string, role domain.Role) error
	remove     func(ctx context.Context, tripID, userID string) error
}

func (m *mockMemberRepo) Add(ctx context.Context, tripID, userID string, role domain.Role) error {
	return m.add(ctx, tripID, userID, role)
}
func (m *mockMemberRepo) ListByTrip(ctx context.Context, tripID string) ([]domain.Member, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockMemberRepo) UpdateRole(ctx context.Context, tripID, userID string, role domain.Role) error {
	return m.updateRole(ctx, tripID, userID, role)
}
func (m *mockMemberRepo) Remove(ctx context.Context, tripID, userID string) error {
	return m.remove(ctx, tripID, userID)
}

// compile-time checks: the mocks must satisfy the repo interfaces.
var (
	_ repo.TripRepo     = (*mockTripRepo)(nil)
	_ repo.ActivityRepo = (*mockActivityRepo)(nil)
	_ repo.MemberRepo   = (*mockMemberRepo)(nil)
)
