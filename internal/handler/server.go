// Package handler implements the HTTP command surface of the trip planner.
// Every handler is a method on Server; methods are split into
// resource-specific files but share the same dependencies.
package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/service"
	"github.com/pkordes/trip-planner/internal/session"
	"github.com/pkordes/trip-planner/internal/store"
)

// TripServicer defines the trip-level operations the handlers depend on.
// Interfaces live here, in the consumer package, so handler tests can inject
// mocks without a store or a database.
type TripServicer interface {
	State() store.State
	FetchTrips(ctx context.Context) ([]domain.Trip, error)
	AddTrip(ctx context.Context, in domain.NewTrip) (string, error)
	Get(ctx context.Context, id string) (domain.Trip, error)
	SetActiveTrip(ctx context.Context, id string) error
	UpdateTrip(ctx context.Context, id string, patch domain.TripPatch) (domain.Trip, error)
	DeleteTrip(ctx context.Context, id string) error
}

// ActivityServicer defines the itinerary operations.
type ActivityServicer interface {
	AddActivity(ctx context.Context, tripID, dayID string, in domain.Activity) (domain.Activity, error)
	UpdateActivity(ctx context.Context, tripID, dayID, id string, patch domain.ActivityPatch) (domain.Activity, error)
	RemoveActivity(ctx context.Context, tripID, dayID, id string) error
	ReorderActivities(ctx context.Context, tripID, dayID string, orderedIDs []string) ([]domain.Activity, error)
}

// TaskServicer defines the task list operations.
type TaskServicer interface {
	AddTask(ctx context.Context, tripID string, in domain.Task) (domain.Task, error)
	UpdateTask(ctx context.Context, tripID, taskID string, patch domain.TaskPatch) (domain.Task, error)
	DeleteTask(ctx context.Context, tripID, taskID string) error
	AddSubtask(ctx context.Context, tripID, taskID, title string) (domain.Task, error)
	ToggleSubtask(ctx context.Context, tripID, taskID string, index int) (domain.Task, error)
}

// BudgetServicer defines the budget and expense operations.
type BudgetServicer interface {
	Summary(ctx context.Context, tripID string) (domain.BudgetSummary, error)
	SetBudget(ctx context.Context, tripID string, amount float64, currency string) (domain.BudgetSummary, error)
	AddExpense(ctx context.Context, tripID string, in domain.Expense) (domain.Expense, error)
	UpdateExpense(ctx context.Context, tripID, expenseID string, patch domain.ExpensePatch) (domain.Expense, error)
	DeleteExpense(ctx context.Context, tripID, expenseID string) error
}

// PackingServicer defines the packing list operations.
type PackingServicer interface {
	Generate(ctx context.Context, tripID string) ([]domain.PackingItem, error)
	AddItem(ctx context.Context, tripID, name, category string) (domain.PackingItem, error)
	ToggleItem(ctx context.Context, tripID, itemID string) (domain.PackingItem, error)
	RemoveItem(ctx context.Context, tripID, itemID string) error
	UncheckAll(ctx context.Context, tripID string) error
}

// PhotoServicer defines the photo operations.
type PhotoServicer interface {
	Upload(ctx context.Context, tripID string, in domain.PhotoUpload) (domain.Photo, error)
	Update(ctx context.Context, tripID, photoID string, edit service.PhotoEdit) (domain.Photo, error)
	Delete(ctx context.Context, tripID, photoID string) error
	Content(ctx context.Context, tripID, photoID string) ([]byte, string, error)
}

// MemberServicer defines the collaboration operations.
type MemberServicer interface {
	List(ctx context.Context, tripID string) ([]domain.Member, error)
	Invite(ctx context.Context, tripID, email string, role domain.Role) ([]domain.Member, error)
	UpdateRole(ctx context.Context, tripID, userID string, role domain.Role) ([]domain.Member, error)
	Remove(ctx context.Context, tripID, userID string) ([]domain.Member, error)
}

// Syncer uploads local trips after sign-in.
type Syncer interface {
	Sync(ctx context.Context) (service.SyncResult, error)
}

// WeatherRefresher refreshes a trip's cached forecast.
type WeatherRefresher interface {
	Refresh(ctx context.Context, tripID string) (service.WeatherStatus, error)
}

// SessionManager exposes the current identity and sign-in/out.
type SessionManager interface {
	Identity() *session.Identity
	Loading() bool
	SignIn(ctx context.Context, token string) (session.Identity, error)
	SignOut(ctx context.Context) error
}

// StateSubscriber streams store changes.
type StateSubscriber interface {
	Subscribe() (<-chan store.State, func())
}

// Deps carries every collaborator of the Server. Routes of nil services are
// not mounted.
type Deps struct {
	Trips      TripServicer
	Activities ActivityServicer
	Tasks      TaskServicer
	Budget     BudgetServicer
	Packing    PackingServicer
	Photos     PhotoServicer
	Members    MemberServicer
	Sync       Syncer
	Weather    WeatherRefresher
	Session    SessionManager
	Events     StateSubscriber

	// MaxUploadBytes bounds a single photo upload.
	MaxUploadBytes int64
	// KeepAlive is the SSE comment interval; zero means 25 seconds.
	KeepAlive time.Duration
	Logger    *slog.Logger
}

// Server implements every HTTP endpoint of the API.
type Server struct {
	Deps
}

// NewServer constructs the Server with all its dependencies.
func NewServer(deps Deps) *Server {
	if deps.MaxUploadBytes <= 0 {
		deps.MaxUploadBytes = 10 << 20
	}
	if deps.KeepAlive <= 0 {
		deps.KeepAlive = 25 * time.Second
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Server{Deps: deps}
}
