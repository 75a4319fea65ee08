package weather

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/pkordes/trip-planner/internal/domain"
)

// geocodeFunc resolves a destination; nil coordinates mean "no match".
type geocodeFunc func(ctx context.Context, destination string) (*domain.Coordinates, error)

// MemoGeocoder remembers every resolved destination for the life of the
// process and collapses concurrent lookups of the same destination into one
// call. Misses and failures are not remembered.
type MemoGeocoder struct {
	lookup geocodeFunc

	mu    sync.RWMutex
	known map[string]domain.Coordinates
	group singleflight.Group
}

// NewMemoGeocoder wraps lookup, usually (*Client).Geocode.
func NewMemoGeocoder(lookup func(ctx context.Context, destination string) (*domain.Coordinates, error)) *MemoGeocoder {
	return &MemoGeocoder{lookup: lookup, known: make(map[string]domain.Coordinates)}
}

// Geocode returns remembered coordinates or performs one shared lookup.
func (g *MemoGeocoder) Geocode(ctx context.Context, destination string) (*domain.Coordinates, error) {
	key := strings.ToLower(strings.TrimSpace(destination))

	g.mu.RLock()
	at, ok := g.known[key]
	g.mu.RUnlock()
	if ok {
		return &at, nil
	}

	v, err, _ := g.group.Do(key, func() (any, error) {
		found, err := g.lookup(ctx, destination)
		if err != nil || found == nil {
			return found, err
		}
		g.mu.Lock()
		g.known[key] = *found
		g.mu.Unlock()
		return found, nil
	})
	if err != nil {
		return nil, err
	}
	found, _ := v.(*domain.Coordinates)
	if found == nil {
		return nil, nil
	}
	c := *found
	return &c, nil
}
