package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/trip-planner/internal/domain"
)

// ActivityRepo defines the row-level persistence of itinerary activities.
// Every write is idempotent by id so retried or interleaved calls converge.
type ActivityRepo interface {
	// Insert adds one activity row with its explicit rank.
	Insert(ctx context.Context, a domain.Activity) error

	// Update overwrites the editable fields of an activity, leaving its rank.
	// Returns domain.ErrNotFound if no activity with that ID exists.
	Update(ctx context.Context, a domain.Activity) error

	// Delete removes an activity by id. Deleting a missing row is not an error.
	Delete(ctx context.Context, id string) error

	// Upsert writes every activity in one batch, inserting new rows and
	// overwriting existing ones including their rank.
	Upsert(ctx context.Context, activities []domain.Activity) error
}

// pgActivityRepo is the Postgres implementation of ActivityRepo.
type pgActivityRepo struct {
	db db
}

// NewActivityRepo constructs an ActivityRepo backed by the provided db connection.
func NewActivityRepo(db db) ActivityRepo {
	return &pgActivityRepo{db: db}
}

const activityColumns = `id, trip_id, day_id, title, description, category, location,
	start_time, end_time, cost, order_index`

const upsertActivityQ = `
	INSERT INTO activities (` + activityColumns + `)
	VALUES (@id, @trip_id, @day_id, @title, @description, @category, @location,
	        @start_time, @end_time, @cost, @order_index)
	ON CONFLICT (id) DO UPDATE
	SET day_id      = EXCLUDED.day_id,
	    title       = EXCLUDED.title,
	    description = EXCLUDED.description,
	    category    = EXCLUDED.category,
	    location    = EXCLUDED.location,
	    start_time  = EXCLUDED.start_time,
	    end_time    = EXCLUDED.end_time,
	    cost        = EXCLUDED.cost,
	    order_index = EXCLUDED.order_index`

// Insert adds a single activity row.
func (r *pgActivityRepo) Insert(ctx context.Context, a domain.Activity) error {
	const q = `
		INSERT INTO activities (` + activityColumns + `)
		VALUES (@id, @trip_id, @day_id, @title, @description, @category, @location,
		        @start_time, @end_time, @cost, @order_index)`

	if _, err := r.db.Exec(ctx, q, activityArgs(a)); err != nil {
		return fmt.Errorf("repo.ActivityRepo.Insert: %w", err)
	}
	return nil
}

// Update overwrites every editable column except the rank.
func (r *pgActivityRepo) Update(ctx context.Context, a domain.Activity) error {
	const q = `
		UPDATE activities
		SET title       = @title,
		    description = @description,
		    category    = @category,
		    location    = @location,
		    start_time  = @start_time,
		    end_time    = @end_time,
		    cost        = @cost
		WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, activityArgs(a))
	if err != nil {
		return fmt.Errorf("repo.ActivityRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ActivityRepo.Update: %w", domain.ErrNotFound)
	}
	return nil
}

// Delete removes an activity by id.
func (r *pgActivityRepo) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM activities WHERE id = @id`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id}); err != nil {
		return fmt.Errorf("repo.ActivityRepo.Delete: %w", err)
	}
	return nil
}

// Upsert queues one statement per activity and sends them as a single batch.
func (r *pgActivityRepo) Upsert(ctx context.Context, activities []domain.Activity) error {
	if len(activities) == 0 {
		return nil
	}
	b := &pgx.Batch{}
	for _, a := range activities {
		b.Queue(upsertActivityQ, activityArgs(a))
	}
	if err := r.db.SendBatch(ctx, b).Close(); err != nil {
		return fmt.Errorf("repo.ActivityRepo.Upsert: %w", err)
	}
	return nil
}

func activityArgs(a domain.Activity) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":          a.ID,
		"trip_id":     a.TripID,
		"day_id":      a.DayID,
		"title":       a.Title,
		"description": a.Description,
		"category":    string(a.Category),
		"location":    a.Location, // nil becomes NULL
		"start_time":  a.StartTime,
		"end_time":    a.EndTime,
		"cost":        a.Cost,
		"order_index": a.Order,
	}
}

// scanActivity maps a row selected with activityColumns into a domain.Activity.
func scanActivity(s scanner) (domain.Activity, error) {
	var (
		a        domain.Activity
		category string
	)
	err := s.Scan(&a.ID, &a.TripID, &a.DayID, &a.Title, &a.Description, &category,
		&a.Location, &a.StartTime, &a.EndTime, &a.Cost, &a.Order)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Activity{}, domain.ErrNotFound
		}
		return domain.Activity{}, err
	}
	a.Category = domain.Category(category)
	return a, nil
}
