// Package repo contains all remote database access for the trip planner.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trip-planner/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// TripRepo defines the remote persistence operations for trips and their days.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows it to be unit-tested with a mock.
type TripRepo interface {
	// ListForUser returns every trip the user owns or is a member of, newest
	// first, with days (date ascending), activities (rank ascending) and
	// members (with profiles) attached.
	ListForUser(ctx context.Context, userID string) ([]domain.Trip, error)

	// Create inserts the trip header row owned by ownerID. Days, activities
	// and memberships are written by their own calls.
	Create(ctx context.Context, trip domain.Trip, ownerID string) error

	// InsertDays bulk-inserts the day rows of a trip.
	InsertDays(ctx context.Context, tripID string, days []domain.Day) error

	// Exists reports whether a trip with the given id is stored remotely.
	Exists(ctx context.Context, id string) (bool, error)

	// UpdateHeader overwrites the editable header fields of a trip.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	UpdateHeader(ctx context.Context, trip domain.Trip) error

	// SaveTasks, SaveExpenses, SavePackingList and SavePhotos replace one
	// JSON column wholesale. Concurrent writers are last-write-wins.
	SaveTasks(ctx context.Context, tripID string, tasks []domain.Task) error
	SaveExpenses(ctx context.Context, tripID string, expenses []domain.Expense) error
	SavePackingList(ctx context.Context, tripID string, items []domain.PackingItem) error
	SavePhotos(ctx context.Context, tripID string, photos []domain.Photo) error

	// SaveWeather stores a forecast, its fetch time and the coordinates it
	// was fetched for.
	SaveWeather(ctx context.Context, tripID string, weather []domain.WeatherDay, updatedAt time.Time, coords *domain.Coordinates) error

	// Delete removes a trip; days, activities and memberships cascade.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id string) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, owner_id, title, destination, start_date, end_date, cover_image,
	budget, currency, coordinates, tasks, expenses, packing_list, photos, weather,
	weather_last_updated, created_at`

// ListForUser loads the visible trips and assembles their nested rows in Go.
func (r *pgTripRepo) ListForUser(ctx context.Context, userID string) ([]domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE owner_id = @user_id
		   OR id IN (SELECT trip_id FROM trip_members WHERE user_id = @user_id)
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListForUser: %w", err)
	}
	trips, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Trip, error) {
		return scanTrip(row)
	})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListForUser: scan: %w", err)
	}
	if len(trips) == 0 {
		return []domain.Trip{}, nil
	}

	ids := make([]string, len(trips))
	index := make(map[string]int, len(trips))
	for i, t := range trips {
		ids[i] = t.ID
		index[t.ID] = i
	}

	if err := r.attachDays(ctx, ids, trips, index); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListForUser: %w", err)
	}
	if err := r.attachMembers(ctx, ids, trips, index); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListForUser: %w", err)
	}
	return trips, nil
}

// attachDays loads days and activities for the given trips and nests them.
func (r *pgTripRepo) attachDays(ctx context.Context, ids []string, trips []domain.Trip, index map[string]int) error {
	const daysQ = `
		SELECT id, trip_id, date
		FROM trip_days
		WHERE trip_id = ANY(@ids)
		ORDER BY trip_id, date`

	rows, err := r.db.Query(ctx, daysQ, pgx.NamedArgs{"ids": ids})
	if err != nil {
		return fmt.Errorf("days: %w", err)
	}
	type dayRef struct{ trip, pos int }
	dayIndex := make(map[string]dayRef)
	for rows.Next() {
		var (
			d      domain.Day
			tripID string
			date   pgtype.Date
		)
		if err := rows.Scan(&d.ID, &tripID, &date); err != nil {
			rows.Close()
			return fmt.Errorf("days: scan: %w", err)
		}
		d.Date = date.Time
		d.Activities = []domain.Activity{}
		ti := index[tripID]
		trips[ti].Days = append(trips[ti].Days, d)
		dayIndex[d.ID] = dayRef{trip: ti, pos: len(trips[ti].Days) - 1}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("days: rows: %w", err)
	}

	const actQ = `
		SELECT ` + activityColumns + `
		FROM activities
		WHERE trip_id = ANY(@ids)
		ORDER BY day_id, order_index, seq`

	rows, err = r.db.Query(ctx, actQ, pgx.NamedArgs{"ids": ids})
	if err != nil {
		return fmt.Errorf("activities: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return fmt.Errorf("activities: scan: %w", err)
		}
		ref, ok := dayIndex[a.DayID]
		if !ok {
			continue
		}
		day := &trips[ref.trip].Days[ref.pos]
		day.Activities = append(day.Activities, a)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("activities: rows: %w", err)
	}
	return nil
}

// attachMembers loads memberships with their profiles for the given trips.
func (r *pgTripRepo) attachMembers(ctx context.Context, ids []string, trips []domain.Trip, index map[string]int) error {
	const q = `
		SELECT m.trip_id, m.user_id, m.role, p.id, p.email, p.display_name, p.avatar_url
		FROM trip_members m
		JOIN profiles p ON p.id = m.user_id
		WHERE m.trip_id = ANY(@ids)
		ORDER BY m.trip_id, m.role = 'owner' DESC, m.created_at, m.user_id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"ids": ids})
	if err != nil {
		return fmt.Errorf("members: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return fmt.Errorf("members: scan: %w", err)
		}
		ti := index[m.TripID]
		trips[ti].Members = append(trips[ti].Members, m)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("members: rows: %w", err)
	}
	return nil
}

// Create inserts the trip header row.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip, ownerID string) error {
	const q = `
		INSERT INTO trips (id, owner_id, title, destination, start_date, end_date, cover_image,
		                   budget, currency, coordinates, tasks, expenses, packing_list, photos,
		                   weather, weather_last_updated, created_at)
		VALUES (@id, @owner_id, @title, @destination, @start_date, @end_date, @cover_image,
		        @budget, @currency, @coordinates, @tasks, @expenses, @packing_list, @photos,
		        @weather, @weather_last_updated, @created_at)`

	createdAt := trip.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	args := pgx.NamedArgs{
		"id":                   trip.ID,
		"owner_id":             ownerID,
		"title":                trip.Name,
		"destination":          trip.Destination,
		"start_date":           dateArg(trip.StartDate),
		"end_date":             dateArg(trip.EndDate),
		"cover_image":          trip.CoverImage,
		"budget":               trip.Budget,
		"currency":             trip.Currency,
		"coordinates":          trip.Coordinates, // nil becomes NULL
		"tasks":                nonNil(trip.Tasks),
		"expenses":             nonNil(trip.Expenses),
		"packing_list":         nonNil(trip.PackingList),
		"photos":               nilIfEmpty(trip.Photos),
		"weather":              nilIfEmpty(trip.Weather),
		"weather_last_updated": trip.WeatherLastUpdated,
		"created_at":           createdAt,
	}

	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return nil
}

// InsertDays copies all day rows in one round trip.
func (r *pgTripRepo) InsertDays(ctx context.Context, tripID string, days []domain.Day) error {
	if len(days) == 0 {
		return nil
	}
	_, err := r.db.CopyFrom(ctx,
		pgx.Identifier{"trip_days"},
		[]string{"id", "trip_id", "date"},
		pgx.CopyFromSlice(len(days), func(i int) ([]any, error) {
			return []any{days[i].ID, tripID, dateArg(days[i].Date)}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("repo.TripRepo.InsertDays: %w", err)
	}
	return nil
}

// Exists reports whether the trip row is present.
func (r *pgTripRepo) Exists(ctx context.Context, id string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM trips WHERE id = @id)`

	var exists bool
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}).Scan(&exists); err != nil {
		return false, fmt.Errorf("repo.TripRepo.Exists: %w", err)
	}
	return exists, nil
}

// UpdateHeader overwrites the editable header columns.
func (r *pgTripRepo) UpdateHeader(ctx context.Context, trip domain.Trip) error {
	const q = `
		UPDATE trips
		SET title                = @title,
		    destination          = @destination,
		    cover_image          = @cover_image,
		    budget               = @budget,
		    currency             = @currency,
		    coordinates          = @coordinates,
		    weather              = @weather,
		    weather_last_updated = @weather_last_updated
		WHERE id = @id`

	args := pgx.NamedArgs{
		"id":                   trip.ID,
		"title":                trip.Name,
		"destination":          trip.Destination,
		"cover_image":          trip.CoverImage,
		"budget":               trip.Budget,
		"currency":             trip.Currency,
		"coordinates":          trip.Coordinates,
		"weather":              nilIfEmpty(trip.Weather),
		"weather_last_updated": trip.WeatherLastUpdated,
	}
	return r.execOne(ctx, "repo.TripRepo.UpdateHeader", q, args)
}

// SaveTasks replaces the tasks column.
func (r *pgTripRepo) SaveTasks(ctx context.Context, tripID string, tasks []domain.Task) error {
	const q = `UPDATE trips SET tasks = @value WHERE id = @id`
	return r.execOne(ctx, "repo.TripRepo.SaveTasks", q, pgx.NamedArgs{"id": tripID, "value": nonNil(tasks)})
}

// SaveExpenses replaces the expenses column.
func (r *pgTripRepo) SaveExpenses(ctx context.Context, tripID string, expenses []domain.Expense) error {
	const q = `UPDATE trips SET expenses = @value WHERE id = @id`
	return r.execOne(ctx, "repo.TripRepo.SaveExpenses", q, pgx.NamedArgs{"id": tripID, "value": nonNil(expenses)})
}

// SavePackingList replaces the packing_list column.
func (r *pgTripRepo) SavePackingList(ctx context.Context, tripID string, items []domain.PackingItem) error {
	const q = `UPDATE trips SET packing_list = @value WHERE id = @id`
	return r.execOne(ctx, "repo.TripRepo.SavePackingList", q, pgx.NamedArgs{"id": tripID, "value": nonNil(items)})
}

// SavePhotos replaces the photos column.
func (r *pgTripRepo) SavePhotos(ctx context.Context, tripID string, photos []domain.Photo) error {
	const q = `UPDATE trips SET photos = @value WHERE id = @id`
	return r.execOne(ctx, "repo.TripRepo.SavePhotos", q, pgx.NamedArgs{"id": tripID, "value": nonNil(photos)})
}

// SaveWeather replaces the cached forecast, its timestamp and the coordinates.
func (r *pgTripRepo) SaveWeather(ctx context.Context, tripID string, weather []domain.WeatherDay, updatedAt time.Time, coords *domain.Coordinates) error {
	const q = `
		UPDATE trips
		SET weather              = @weather,
		    weather_last_updated = @updated_at,
		    coordinates          = COALESCE(@coordinates, coordinates)
		WHERE id = @id`

	args := pgx.NamedArgs{
		"id":          tripID,
		"weather":     nonNil(weather),
		"updated_at":  updatedAt,
		"coordinates": coords,
	}
	return r.execOne(ctx, "repo.TripRepo.SaveWeather", q, args)
}

// Delete removes a trip by primary key.
func (r *pgTripRepo) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM trips WHERE id = @id`
	return r.execOne(ctx, "repo.TripRepo.Delete", q, pgx.NamedArgs{"id": id})
}

// execOne runs a statement that must touch exactly one trip row.
func (r *pgTripRepo) execOne(ctx context.Context, op, q string, args pgx.NamedArgs) error {
	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a row selected with tripColumns into a domain.Trip.
// Nested rows (days, members) are attached by the caller.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t           domain.Trip
		start, end  pgtype.Date
		lastUpdated pgtype.Timestamptz
	)

	err := s.Scan(&t.ID, &t.OwnerID, &t.Name, &t.Destination, &start, &end, &t.CoverImage,
		&t.Budget, &t.Currency, &t.Coordinates, &t.Tasks, &t.Expenses, &t.PackingList,
		&t.Photos, &t.Weather, &lastUpdated, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.StartDate = start.Time
	t.EndDate = end.Time
	if lastUpdated.Valid {
		lu := lastUpdated.Time
		t.WeatherLastUpdated = &lu
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.Days = []domain.Day{}
	if t.Tasks == nil {
		t.Tasks = []domain.Task{}
	}
	if t.Expenses == nil {
		t.Expenses = []domain.Expense{}
	}
	if t.PackingList == nil {
		t.PackingList = []domain.PackingItem{}
	}
	return t, nil
}

// dateArg encodes t as a Postgres DATE.
func dateArg(t time.Time) pgtype.Date {
	return pgtype.Date{Time: domain.Date(t), Valid: true}
}

// nonNil keeps NOT NULL JSON array columns from receiving JSON null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// nilIfEmpty stores an empty optional collection as SQL NULL.
func nilIfEmpty[T any](s []T) any {
	if len(s) == 0 {
		return nil
	}
	return s
}
