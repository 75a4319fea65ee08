package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/persist"
	"github.com/pkordes/trip-planner/internal/store"
)

// WeatherStatus is the outcome of a refresh that did not fail.
type WeatherStatus string

const (
	WeatherFresh         WeatherStatus = "fresh"
	WeatherUpdated       WeatherStatus = "updated"
	WeatherNoCoordinates WeatherStatus = "no-coordinates"
	WeatherNoForecast    WeatherStatus = "no-forecast"
)

// geocoder resolves a destination to coordinates; nil means no match.
type geocoder interface {
	Geocode(ctx context.Context, destination string) (*domain.Coordinates, error)
}

// forecaster fetches daily forecasts for a date range.
type forecaster interface {
	Forecast(ctx context.Context, at domain.Coordinates, start, end time.Time) ([]domain.WeatherDay, error)
}

// WeatherService keeps each trip's cached forecast up to date.
type WeatherService struct {
	core
	geocoder   geocoder
	forecaster forecaster
	maxAge     time.Duration
	now        func() time.Time

	group singleflight.Group
}

// NewWeatherService constructs a WeatherService. A maxAge of zero means
// domain.WeatherFreshness.
func NewWeatherService(st *store.TripStore, backends backendSelector, g geocoder, f forecaster, maxAge time.Duration, logger *slog.Logger) *WeatherService {
	if maxAge <= 0 {
		maxAge = domain.WeatherFreshness
	}
	return &WeatherService{
		core:       core{store: st, backends: backends, logger: logger},
		geocoder:   g,
		forecaster: f,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// Refresh updates the trip's forecast unless the cached one is still fresh.
// Coordinates come from the trip or, failing that, from geocoding its
// destination. A geocoding miss or an empty forecast leaves the cache as it
// is and is reported through the status. Concurrent refreshes of one trip
// share a single fetch, which outlives any one caller giving up.
func (s *WeatherService) Refresh(ctx context.Context, tripID string) (WeatherStatus, error) {
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(tripID, func() (any, error) {
		return s.refresh(shared, tripID)
	})
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("service.WeatherService.Refresh: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return "", fmt.Errorf("service.WeatherService.Refresh: %w", res.Err)
		}
		return res.Val.(WeatherStatus), nil
	}
}

func (s *WeatherService) refresh(ctx context.Context, tripID string) (WeatherStatus, error) {
	trip, ok := s.store.Trip(tripID)
	if !ok {
		return "", domain.ErrNotFound
	}
	now := s.now()
	if domain.WeatherIsFresh(trip, now, s.maxAge) {
		return WeatherFresh, nil
	}

	coords := trip.Coordinates
	if coords == nil {
		c, err := s.geocoder.Geocode(ctx, trip.Destination)
		if err != nil {
			return "", err
		}
		if c == nil {
			s.logger.Info("destination not geocoded", "trip_id", tripID, "destination", trip.Destination)
			return WeatherNoCoordinates, nil
		}
		coords = c
	}

	days, err := s.forecaster.Forecast(ctx, *coords, trip.StartDate, trip.EndDate)
	if err != nil {
		return "", err
	}
	if len(days) == 0 {
		return WeatherNoForecast, nil
	}

	b := s.backends.Current()
	stamp := now.UTC()
	updated, err := s.store.UpdateTrip(tripID, func(t domain.Trip) (domain.Trip, error) {
		t.Weather = days
		t.WeatherLastUpdated = &stamp
		t.Coordinates = coords
		return t, nil
	})
	if err != nil {
		return "", err
	}
	s.persistLogged(ctx, b, "save_weather", tripID, func(b persist.Backend) error {
		return b.SaveWeather(ctx, updated)
	})
	return WeatherUpdated, nil
}
