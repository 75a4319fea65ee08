package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/handler"
	"github.com/pkordes/trip-planner/internal/service"
	"github.com/pkordes/trip-planner/internal/session"
	"github.com/pkordes/trip-planner/internal/store"
)

// Hand-written test doubles. Each method is a function field; set only the
// ones a test needs.

type mockTrips struct {
	state      func() store.State
	fetchTrips func(ctx context.Context) ([]domain.Trip, error)
	addTrip    func(ctx context.Context, in domain.NewTrip) (string, error)
	get        func(ctx context.Context, id string) (domain.Trip, error)
	setActive  func(ctx context.Context, id string) error
	updateTrip func(ctx context.Context, id string, patch domain.TripPatch) (domain.Trip, error)
	deleteTrip func(ctx context.Context, id string) error
}

func (m *mockTrips) State() store.State {
	if m.state == nil {
		return store.State{Trips: []domain.Trip{}}
	}
	return m.state()
}
func (m *mockTrips) FetchTrips(ctx context.Context) ([]domain.Trip, error) { return m.fetchTrips(ctx) }
func (m *mockTrips) AddTrip(ctx context.Context, in domain.NewTrip) (string, error) {
	return m.addTrip(ctx, in)
}
func (m *mockTrips) Get(ctx context.Context, id string) (domain.Trip, error) { return m.get(ctx, id) }
func (m *mockTrips) SetActiveTrip(ctx context.Context, id string) error     { return m.setActive(ctx, id) }
func (m *mockTrips) UpdateTrip(ctx context.Context, id string, p domain.TripPatch) (domain.Trip, error) {
	return m.updateTrip(ctx, id, p)
}
func (m *mockTrips) DeleteTrip(ctx context.Context, id string) error { return m.deleteTrip(ctx, id) }

var _ handler.TripServicer = (*mockTrips)(nil)

type mockActivities struct {
	add     func(ctx context.Context, tripID, dayID string, in domain.Activity) (domain.Activity, error)
	update  func(ctx context.Context, tripID, dayID, id string, p domain.ActivityPatch) (domain.Activity, error)
	remove  func(ctx context.Context, tripID, dayID, id string) error
	reorder func(ctx context.Context, tripID, dayID string, ids []string) ([]domain.Activity, error)
}

func (m *mockActivities) AddActivity(ctx context.Context, tripID, dayID string, in domain.Activity) (domain.Activity, error) {
	return m.add(ctx, tripID, dayID, in)
}
func (m *mockActivities) UpdateActivity(ctx context.Context, tripID, dayID, id string, p domain.ActivityPatch) (domain.Activity, error) {
	return m.update(ctx, tripID, dayID, id, p)
}
func (m *mockActivities) RemoveActivity(ctx context.Context, tripID, dayID, id string) error {
	return m.remove(ctx, tripID, dayID, id)
}
func (m *mockActivities) ReorderActivities(ctx context.Context, tripID, dayID string, ids []string) ([]domain.Activity, error) {
	return m.reorder(ctx, tripID, dayID, ids)
}

var _ handler.ActivityServicer = (*mockActivities)(nil)

type mockTasks struct {
	add           func(ctx context.Context, tripID string, in domain.Task) (domain.Task, error)
	update        func(ctx context.Context, tripID, taskID string, p domain.TaskPatch) (domain.Task, error)
	remove        func(ctx context.Context, tripID, taskID string) error
	addSubtask    func(ctx context.Context, tripID, taskID, title string) (domain.Task, error)
	toggleSubtask func(ctx context.Context, tripID, taskID string, index int) (domain.Task, error)
}

func (m *mockTasks) AddTask(ctx context.Context, tripID string, in domain.Task) (domain.Task, error) {
	return m.add(ctx, tripID, in)
}
func (m *mockTasks) UpdateTask(ctx context.Context, tripID, taskID string, p domain.TaskPatch) (domain.Task, error) {
	return m.update(ctx, tripID, taskID, p)
}
func (m *mockTasks) DeleteTask(ctx context.Context, tripID, taskID string) error {
	return m.remove(ctx, tripID, taskID)
}
func (m *mockTasks) AddSubtask(ctx context.Context, tripID, taskID, title string) (domain.Task, error) {
	return m.addSubtask(ctx, tripID, taskID, title)
}
func (m *mockTasks) ToggleSubtask(ctx context.Context, tripID, taskID string, index int) (domain.Task, error) {
	return m.toggleSubtask(ctx, tripID, taskID, index)
}

var _ handler.TaskServicer = (*mockTasks)(nil)

type mockBudget struct {
	summary   func(ctx context.Context, tripID string) (domain.BudgetSummary, error)
	setBudget func(ctx context.Context, tripID string, amount float64, currency string) (domain.BudgetSummary, error)
	add       func(ctx context.Context, tripID string, in domain.Expense) (domain.Expense, error)
	update    func(ctx context.Context, tripID, id string, p domain.ExpensePatch) (domain.Expense, error)
	remove    func(ctx context.Context, tripID, id string) error
}

func (m *mockBudget) Summary(ctx context.Context, tripID string) (domain.BudgetSummary, error) {
	return m.summary(ctx, tripID)
}
func (m *mockBudget) SetBudget(ctx context.Context, tripID string, amount float64, currency string) (domain.BudgetSummary, error) {
	return m.setBudget(ctx, tripID, amount, currency)
}
func (m *mockBudget) AddExpense(ctx context.Context, tripID string, in domain.Expense) (domain.Expense, error) {
	return m.add(ctx, tripID, in)
}
func (m *mockBudget) UpdateExpense(ctx context.Context, tripID, id string, p domain.ExpensePatch) (domain.Expense, error) {
	return m.update(ctx, tripID, id, p)
}
func (m *mockBudget) DeleteExpense(ctx context.Context, tripID, id string) error {
	return m.remove(ctx, tripID, id)
}

var _ handler.BudgetServicer = (*mockBudget)(nil)

type mockPacking struct {
	generate   func(ctx context.Context, tripID string) ([]domain.PackingItem, error)
	add        func(ctx context.Context, tripID, name, category string) (domain.PackingItem, error)
	toggle     func(ctx context.Context, tripID, itemID string) (domain.PackingItem, error)
	remove     func(ctx context.Context, tripID, itemID string) error
	uncheckAll func(ctx context.Context, tripID string) error
}

func (m *mockPacking) Generate(ctx context.Context, tripID string) ([]domain.PackingItem, error) {
	return m.generate(ctx, tripID)
}
func (m *mockPacking) AddItem(ctx context.Context, tripID, name, category string) (domain.PackingItem, error) {
	return m.add(ctx, tripID, name, category)
}
func (m *mockPacking) ToggleItem(ctx context.Context, tripID, itemID string) (domain.PackingItem, error) {
	return m.toggle(ctx, tripID, itemID)
}
func (m *mockPacking) RemoveItem(ctx context.Context, tripID, itemID string) error {
	return m.remove(ctx, tripID, itemID)
}
func (m *mockPacking) UncheckAll(ctx context.Context, tripID string) error {
	return m.uncheckAll(ctx, tripID)
}

var _ handler.PackingServicer = (*mockPacking)(nil)

type mockPhotos struct {
	upload  func(ctx context.Context, tripID string, in domain.PhotoUpload) (domain.Photo, error)
	update  func(ctx context.Context, tripID, photoID string, e service.PhotoEdit) (domain.Photo, error)
	remove  func(ctx context.Context, tripID, photoID string) error
	content func(ctx context.Context, tripID, photoID string) ([]byte, string, error)
}

func (m *mockPhotos) Upload(ctx context.Context, tripID string, in domain.PhotoUpload) (domain.Photo, error) {
	return m.upload(ctx, tripID, in)
}
func (m *mockPhotos) Update(ctx context.Context, tripID, photoID string, e service.PhotoEdit) (domain.Photo, error) {
	return m.update(ctx, tripID, photoID, e)
}
func (m *mockPhotos) Delete(ctx context.Context, tripID, photoID string) error {
	return m.remove(ctx, tripID, photoID)
}
func (m *mockPhotos) Content(ctx context.Context, tripID, photoID string) ([]byte, string, error) {
	return m.content(ctx, tripID, photoID)
}

var _ handler.PhotoServicer = (*mockPhotos)(nil)

type mockMembers struct {
	list       func(ctx context.Context, tripID string) ([]domain.Member, error)
	invite     func(ctx context.Context, tripID, email string, role domain.Role) ([]domain.Member, error)
	updateRole func(ctx context.Context, tripID, userID string, role domain.Role) ([]domain.Member, error)
	remove     func(ctx context.Context, tripID, userID string) ([]domain.Member, error)
}

func (m *mockMembers) List(ctx context.Context, tripID string) ([]domain.Member, error) {
	return m.list(ctx, tripID)
}
func (m *mockMembers) Invite(ctx context.Context, tripID, email string, role domain.Role) ([]domain.Member, error) {
	return m.invite(ctx, tripID, email, role)
}
func (m *mockMembers) UpdateRole(ctx context.Context, tripID, userID string, role domain.Role) ([]domain.Member, error) {
	return m.updateRole(ctx, tripID, userID, role)
}
func (m *mockMembers) Remove(ctx context.Context, tripID, userID string) ([]domain.Member, error) {
	return m.remove(ctx, tripID, userID)
}

var _ handler.MemberServicer = (*mockMembers)(nil)

type mockSync struct {
	sync func(ctx context.Context) (service.SyncResult, error)
}

func (m *mockSync) Sync(ctx context.Context) (service.SyncResult, error) { return m.sync(ctx) }

type mockWeather struct {
	refresh func(ctx context.Context, tripID string) (service.WeatherStatus, error)
}

func (m *mockWeather) Refresh(ctx context.Context, tripID string) (service.WeatherStatus, error) {
	return m.refresh(ctx, tripID)
}

type mockSession struct {
	identity *session.Identity
	loading  bool
	signIn   func(ctx context.Context, token string) (session.Identity, error)
	signOut  func(ctx context.Context) error
}

func (m *mockSession) Identity() *session.Identity { return m.identity }
func (m *mockSession) Loading() bool               { return m.loading }
func (m *mockSession) SignIn(ctx context.Context, token string) (session.Identity, error) {
	return m.signIn(ctx, token)
}
func (m *mockSession) SignOut(ctx context.Context) error { return m.signOut(ctx) }

var _ handler.SessionManager = (*mockSession)(nil)

// ---- helpers ---------------------------------------------------------------

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHTTPHandler(deps handler.Deps) http.Handler {
	deps.Logger = discardLogger()
	return handler.NewServer(deps).Routes()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorDetail {
	t.Helper()
	var body handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}
