package weather_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/weather"
)

func TestMemoGeocoder_RemembersHits(t *testing.T) {
	var calls int32
	g := weather.NewMemoGeocoder(func(context.Context, string) (*domain.Coordinates, error) {
		atomic.AddInt32(&calls, 1)
		return &domain.Coordinates{Lat: 1, Lng: 2}, nil
	})

	for i := 0; i < 3; i++ {
		at, err := g.Geocode(context.Background(), "Tokyo")
		require.NoError(t, err)
		assert.Equal(t, &domain.Coordinates{Lat: 1, Lng: 2}, at)
	}
	_, err := g.Geocode(context.Background(), " tokyo ")
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestMemoGeocoder_DoesNotRememberMissesOrErrors(t *testing.T) {
	var calls int32
	boom := errors.New("offline")
	g := weather.NewMemoGeocoder(func(context.Context, string) (*domain.Coordinates, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, boom
		}
		return nil, nil
	})

	_, err := g.Geocode(context.Background(), "Nowhere")
	assert.ErrorIs(t, err, boom)
	at, err := g.Geocode(context.Background(), "Nowhere")
	require.NoError(t, err)
	assert.Nil(t, at)
	_, _ = g.Geocode(context.Background(), "Nowhere")

	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestMemoGeocoder_CollapsesConcurrentLookups(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	g := weather.NewMemoGeocoder(func(context.Context, string) (*domain.Coordinates, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return &domain.Coordinates{Lat: 3, Lng: 4}, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			at, err := g.Geocode(context.Background(), "Kyoto")
			assert.NoError(t, err)
			assert.NotNil(t, at)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
