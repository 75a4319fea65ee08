package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/handler"
	"github.com/pkordes/trip-planner/internal/service"
	"github.com/pkordes/trip-planner/internal/session"
)

func TestGetSession_anonymous(t *testing.T) {
	h := newHTTPHandler(handler.Deps{Session: &mockSession{loading: true}})

	rec := do(t, h, http.MethodGet, "/session", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"authenticated":false,"loading":true}`, rec.Body.String())
}

func TestSignIn_tokenFromBody(t *testing.T) {
	h := newHTTPHandler(handler.Deps{Session: &mockSession{
		signIn: func(_ context.Context, token string) (session.Identity, error) {
			assert.Equal(t, "body-token", token)
			return session.Identity{UserID: "u1", Email: "a@example.com"}, nil
		},
	}})

	rec := do(t, h, http.MethodPost, "/session", map[string]any{"token": "body-token"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"authenticated":true,"loading":false,"userId":"u1","email":"a@example.com"}`, rec.Body.String())
}

func TestSignIn_tokenFromBearerHeader(t *testing.T) {
	h := newHTTPHandler(handler.Deps{Session: &mockSession{
		signIn: func(_ context.Context, token string) (session.Identity, error) {
			assert.Equal(t, "header-token", token)
			return session.Identity{UserID: "u1"}, nil
		},
	}})
	req := httptest.NewRequest(http.MethodPost, "/session", nil)
	req.Header.Set("Authorization", "Bearer header-token")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSignIn_missingTokenIs422(t *testing.T) {
	h := newHTTPHandler(handler.Deps{Session: &mockSession{}})

	rec := do(t, h, http.MethodPost, "/session", nil)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "token is required", decodeError(t, rec).Message)
}

func TestSignIn_invalidTokenIs401(t *testing.T) {
	h := newHTTPHandler(handler.Deps{Session: &mockSession{
		signIn: func(context.Context, string) (session.Identity, error) {
			return session.Identity{}, fmt.Errorf("session.SignIn: %w: token is expired", domain.ErrInvalidToken)
		},
	}})

	rec := do(t, h, http.MethodPost, "/session", map[string]any{"token": "stale"})

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	detail := decodeError(t, rec)
	assert.Equal(t, "invalid_token", detail.Code)
	assert.Equal(t, "token is expired", detail.Message)
}

func TestSignOut_returns204(t *testing.T) {
	called := false
	h := newHTTPHandler(handler.Deps{Session: &mockSession{
		signOut: func(context.Context) error {
			called = true
			return nil
		},
	}})

	rec := do(t, h, http.MethodDelete, "/session", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, called)
}

func TestRunSync_anonymousIs401(t *testing.T) {
	h := newHTTPHandler(handler.Deps{Sync: &mockSync{
		sync: func(context.Context) (service.SyncResult, error) {
			return service.SyncResult{}, fmt.Errorf("service.SyncService.Sync: %w", domain.ErrAuthRequired)
		},
	}})

	rec := do(t, h, http.MethodPost, "/sync", nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decodeError(t, rec).Code)
}

func TestRunSync_returnsResult(t *testing.T) {
	h := newHTTPHandler(handler.Deps{Sync: &mockSync{
		sync: func(context.Context) (service.SyncResult, error) {
			return service.SyncResult{Uploaded: 2, Skipped: 1, Failed: []string{}, Cleared: true, Refetched: true}, nil
		},
	}})

	rec := do(t, h, http.MethodPost, "/sync", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"uploaded":2,"skipped":1,"failed":[],"cleared":true,"refetched":true}`, rec.Body.String())
}

func TestRefreshWeather_reportsStatusAndTrip(t *testing.T) {
	h := newHTTPHandler(handler.Deps{
		Weather: &mockWeather{refresh: func(context.Context, string) (service.WeatherStatus, error) {
			return service.WeatherNoCoordinates, nil
		}},
		Trips: &mockTrips{get: func(_ context.Context, id string) (domain.Trip, error) {
			return domain.Trip{ID: id}, nil
		}},
	})

	rec := do(t, h, http.MethodPost, "/trips/t1/weather/refresh", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"no-coordinates"`)
	assert.Contains(t, rec.Body.String(), `"id":"t1"`)
}
