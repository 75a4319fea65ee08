package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/handler"
	"github.com/pkordes/trip-planner/internal/store"
)

func TestCreateTrip_returns201WithID(t *testing.T) {
	var got domain.NewTrip
	h := newHTTPHandler(handler.Deps{Trips: &mockTrips{
		addTrip: func(_ context.Context, in domain.NewTrip) (string, error) {
			got = in
			return "trip-1", nil
		},
	}})

	rec := do(t, h, http.MethodPost, "/trips", map[string]any{
		"name": "Lisbon", "destination": "Lisbon, Portugal",
		"startDate": "2026-05-01", "endDate": "2026-05-03", "budget": 1500,
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"id":"trip-1"}`, rec.Body.String())
	assert.Equal(t, "Lisbon", got.Name)
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), got.StartDate)
	assert.Equal(t, time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC), got.EndDate)
	assert.Equal(t, 1500.0, got.Budget)
}

func TestCreateTrip_validationErrorIs422WithMessage(t *testing.T) {
	h := newHTTPHandler(handler.Deps{Trips: &mockTrips{
		addTrip: func(context.Context, domain.NewTrip) (string, error) {
			return "", fmt.Errorf("service.TripService.AddTrip: %w: name is required", domain.ErrValidation)
		},
	}})

	rec := do(t, h, http.MethodPost, "/trips", map[string]any{
		"name": "", "destination": "x", "startDate": "2026-05-01", "endDate": "2026-05-01",
	})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	detail := decodeError(t, rec)
	assert.Equal(t, "validation_error", detail.Code)
	assert.Equal(t, "name is required", detail.Message)
}

func TestCreateTrip_rejectsUnknownFields(t *testing.T) {
	h := newHTTPHandler(handler.Deps{Trips: &mockTrips{}})

	rec := do(t, h, http.MethodPost, "/trips", map[string]any{"nmae": "typo"})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation_error", decodeError(t, rec).Code)
}

func TestCreateTrip_emptyBodyIs422(t *testing.T) {
	h := newHTTPHandler(handler.Deps{Trips: &mockTrips{}})

	rec := do(t, h, http.MethodPost, "/trips", nil)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "request body is required", decodeError(t, rec).Message)
}

func TestListTrips_returnsState(t *testing.T) {
	h := newHTTPHandler(handler.Deps{Trips: &mockTrips{
		state: func() store.State {
			return store.State{Trips: []domain.Trip{{ID: "t1", Name: "Rome"}}, ActiveTripID: "t1"}
		},
	}})

	rec := do(t, h, http.MethodGet, "/trips", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"activeTripId":"t1"`)
	assert.Contains(t, body, `"name":"Rome"`)
	assert.Contains(t, body, `"loading":false`)
}

func TestRefreshTrips_sessionLoadingIs409(t *testing.T) {
	h := newHTTPHandler(handler.Deps{Trips: &mockTrips{
		fetchTrips: func(context.Context) ([]domain.Trip, error) {
			return nil, fmt.Errorf("service.TripService.FetchTrips: %w", domain.ErrSessionLoading)
		},
	}})

	rec := do(t, h, http.MethodPost, "/trips/refresh", nil)

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "session_loading", decodeError(t, rec).Code)
}

func TestGetTrip_notFoundIs404(t *testing.T) {
	h := newHTTPHandler(handler.Deps{Trips: &mockTrips{
		get: func(_ context.Context, id string) (domain.Trip, error) {
			assert.Equal(t, "missing", id)
			return domain.Trip{}, domain.ErrNotFound
		},
	}})

	rec := do(t, h, http.MethodGet, "/trips/missing", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Code)
}

func TestUpdateTrip_passesOnlyProvidedFields(t *testing.T) {
	var got domain.TripPatch
	h := newHTTPHandler(handler.Deps{Trips: &mockTrips{
		updateTrip: func(_ context.Context, id string, p domain.TripPatch) (domain.Trip, error) {
			got = p
			return domain.Trip{ID: id, Name: *p.Name}, nil
		},
	}})

	rec := do(t, h, http.MethodPatch, "/trips/t1", map[string]any{"name": "Renamed"})

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got.Name)
	assert.Equal(t, "Renamed", *got.Name)
	assert.Nil(t, got.Budget)
	assert.Nil(t, got.Destination)
}

func TestDeleteTrip_returns204(t *testing.T) {
	h := newHTTPHandler(handler.Deps{Trips: &mockTrips{
		deleteTrip: func(context.Context, string) error { return nil },
	}})

	rec := do(t, h, http.MethodDelete, "/trips/t1", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestDeleteTrip_unexpectedErrorIs500WithoutCause(t *testing.T) {
	h := newHTTPHandler(handler.Deps{Trips: &mockTrips{
		deleteTrip: func(context.Context, string) error { return errors.New("pq: connection refused") },
	}})

	rec := do(t, h, http.MethodDelete, "/trips/t1", nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	detail := decodeError(t, rec)
	assert.Equal(t, "internal_error", detail.Code)
	assert.False(t, strings.Contains(detail.Message, "connection refused"))
}

func TestSetActiveTrip_forwardsID(t *testing.T) {
	var selected string
	h := newHTTPHandler(handler.Deps{Trips: &mockTrips{
		setActive: func(_ context.Context, id string) error {
			selected = id
			return nil
		},
		state: func() store.State { return store.State{Trips: []domain.Trip{}, ActiveTripID: selected} },
	}})

	rec := do(t, h, http.MethodPut, "/active-trip", map[string]any{"tripId": "t2"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "t2", selected)
	assert.Contains(t, rec.Body.String(), `"activeTripId":"t2"`)
}
