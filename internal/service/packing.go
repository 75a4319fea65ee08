package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/persist"
	"github.com/pkordes/trip-planner/internal/store"
)

// PackingService manages a trip's packing list.
type PackingService struct {
	core

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// NewPackingService constructs a PackingService drawing suggestions from rng.
// A nil rng is replaced by a randomly seeded source.
func NewPackingService(st *store.TripStore, backends backendSelector, rng *rand.Rand, logger *slog.Logger) *PackingService {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &PackingService{core: core{store: st, backends: backends, logger: logger}, rng: rng}
}

// Generate appends generated suggestions to the packing list, using the
// trip's cached forecast for weather extras. Returns the items added.
func (s *PackingService) Generate(ctx context.Context, tripID string) ([]domain.PackingItem, error) {
	var added []domain.PackingItem
	err := s.mutate(ctx, tripID, func(t domain.Trip) ([]domain.PackingItem, error) {
		s.mu.Lock()
		added = GeneratePackingItems(s.rng, t.Weather, t.PackingList)
		s.mu.Unlock()
		return appendCopy(t.PackingList, added...), nil
	})
	if err != nil {
		return nil, fmt.Errorf("service.PackingService.Generate: %w", err)
	}
	s.logger.Debug("packing list generated", "trip_id", tripID, "added", len(added))
	return added, nil
}

// AddItem appends a user-defined item.
func (s *PackingService) AddItem(ctx context.Context, tripID, name, category string) (domain.PackingItem, error) {
	item := domain.PackingItem{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(name),
		Category: category,
		IsCustom: true,
	}
	if item.Category == "" {
		item.Category = "Other"
	}
	if err := item.Validate(); err != nil {
		return domain.PackingItem{}, fmt.Errorf("service.PackingService.AddItem: %w", err)
	}
	err := s.mutate(ctx, tripID, func(t domain.Trip) ([]domain.PackingItem, error) {
		return appendCopy(t.PackingList, item), nil
	})
	if err != nil {
		return domain.PackingItem{}, fmt.Errorf("service.PackingService.AddItem: %w", err)
	}
	return item, nil
}

// ToggleItem flips the checked flag of one item.
func (s *PackingService) ToggleItem(ctx context.Context, tripID, itemID string) (domain.PackingItem, error) {
	var updated domain.PackingItem
	err := s.mutate(ctx, tripID, func(t domain.Trip) ([]domain.PackingItem, error) {
		i := indexByID(t.PackingList, itemID, packingIDOf)
		if i < 0 {
			return nil, domain.ErrNotFound
		}
		updated = t.PackingList[i]
		updated.Checked = !updated.Checked
		return replaceAt(t.PackingList, i, updated), nil
	})
	if err != nil {
		return domain.PackingItem{}, fmt.Errorf("service.PackingService.ToggleItem: %w", err)
	}
	return updated, nil
}

// RemoveItem deletes one item.
func (s *PackingService) RemoveItem(ctx context.Context, tripID, itemID string) error {
	err := s.mutate(ctx, tripID, func(t domain.Trip) ([]domain.PackingItem, error) {
		i := indexByID(t.PackingList, itemID, packingIDOf)
		if i < 0 {
			return nil, domain.ErrNotFound
		}
		return removeAt(t.PackingList, i), nil
	})
	if err != nil {
		return fmt.Errorf("service.PackingService.RemoveItem: %w", err)
	}
	return nil
}

// UncheckAll clears every checked flag.
func (s *PackingService) UncheckAll(ctx context.Context, tripID string) error {
	err := s.mutate(ctx, tripID, func(t domain.Trip) ([]domain.PackingItem, error) {
		items := make([]domain.PackingItem, len(t.PackingList))
		for i, it := range t.PackingList {
			it.Checked = false
			items[i] = it
		}
		return items, nil
	})
	if err != nil {
		return fmt.Errorf("service.PackingService.UncheckAll: %w", err)
	}
	return nil
}

func (s *PackingService) mutate(ctx context.Context, tripID string, fn func(domain.Trip) ([]domain.PackingItem, error)) error {
	b := s.backends.Current()
	trip, err := s.store.UpdateTrip(tripID, func(t domain.Trip) (domain.Trip, error) {
		items, err := fn(t)
		if err != nil {
			return t, err
		}
		t.PackingList = items
		return t, nil
	})
	if err != nil {
		return err
	}
	s.persistLogged(ctx, b, "save_packing_list", tripID, func(b persist.Backend) error {
		return b.SavePackingList(ctx, trip)
	})
	return nil
}

func packingIDOf(p domain.PackingItem) string { return p.ID }
