package service_test

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/service"
)

func seededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func countByCategory(items []domain.PackingItem) map[string]int {
	out := map[string]int{}
	for _, it := range items {
		out[it.Category]++
	}
	return out
}

func TestGeneratePackingItems_ThreeToFivePerCategoryNoDuplicates(t *testing.T) {
	for seed := uint64(0); seed < 50; seed++ {
		items := service.GeneratePackingItems(seededRand(seed), nil, nil)

		names := map[string]bool{}
		for _, it := range items {
			assert.False(t, names[it.Name], "duplicate %q with seed %d", it.Name, seed)
			names[it.Name] = true
			assert.False(t, it.IsCustom)
			assert.False(t, it.Checked)
			assert.NotEmpty(t, it.ID)
		}
		for cat, n := range countByCategory(items) {
			assert.GreaterOrEqual(t, n, 3, "category %s", cat)
			assert.LessOrEqual(t, n, 5, "category %s", cat)
		}
		assert.Zero(t, countByCategory(items)["Weather"])
	}
}

func TestGeneratePackingItems_SameSeedSameResult(t *testing.T) {
	a := service.GeneratePackingItems(seededRand(7), nil, nil)
	b := service.GeneratePackingItems(seededRand(7), nil, nil)

	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, a[i].Name, b[i].Name)
	}
}

func TestGeneratePackingItems_DropsExistingNames(t *testing.T) {
	existing := []domain.PackingItem{{Name: "Passport"}, {Name: "Umbrella"}, {Name: "toothbrush"}}
	weather := []domain.WeatherDay{{TempMax: 20, TempMin: 12, PrecipitationProbability: 80}}

	for seed := uint64(0); seed < 20; seed++ {
		items := service.GeneratePackingItems(seededRand(seed), weather, existing)
		for _, it := range items {
			assert.NotEqual(t, "Passport", it.Name)
			assert.NotEqual(t, "Umbrella", it.Name)
		}
	}
}

func TestGeneratePackingItems_CaseSensitiveMatch(t *testing.T) {
	existing := []domain.PackingItem{{Name: "umbrella"}}
	weather := []domain.WeatherDay{{TempMax: 20, TempMin: 12, PrecipitationProbability: 90}}

	items := service.GeneratePackingItems(seededRand(1), weather, existing)

	var found bool
	for _, it := range items {
		found = found || it.Name == "Umbrella"
	}
	assert.True(t, found)
}

func TestGeneratePackingItems_WeatherExtras(t *testing.T) {
	names := func(items []domain.PackingItem) map[string]bool {
		out := map[string]bool{}
		for _, it := range items {
			out[it.Name] = true
		}
		return out
	}

	tests := []struct {
		name    string
		weather []domain.WeatherDay
		want    []string
		notWant []string
	}{
		{
			name:    "rain above fifty percent",
			weather: []domain.WeatherDay{{TempMax: 20, TempMin: 15, PrecipitationProbability: 51}},
			want:    []string{"Umbrella", "Rain jacket"},
			notWant: []string{"Gloves", "Sunscreen"},
		},
		{
			name:    "exactly fifty percent is dry",
			weather: []domain.WeatherDay{{TempMax: 20, TempMin: 15, PrecipitationProbability: 50}},
			notWant: []string{"Umbrella"},
		},
		{
			name:    "cold minimum",
			weather: []domain.WeatherDay{{TempMax: 14, TempMin: 4}},
			want:    []string{"Warm jacket", "Gloves"},
		},
		{
			name:    "warm maximum",
			weather: []domain.WeatherDay{{TempMax: 31, TempMin: 22}},
			want:    []string{"Sunscreen", "Sunglasses"},
			notWant: []string{"Gloves"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := names(service.GeneratePackingItems(seededRand(3), tc.weather, nil))
			for _, n := range tc.want {
				assert.True(t, got[n], "missing %s", n)
			}
			for _, n := range tc.notWant {
				assert.False(t, got[n], "unexpected %s", n)
			}
		})
	}
}

func TestPackingService_GenerateTwiceAddsNothingTwice(t *testing.T) {
	trip := newTrip("T", 1)
	st := seeded(trip)
	b := &mockBackend{}
	svc := service.NewPackingService(st, fixedSelector{b}, seededRand(11), discardLogger())
	ctx := context.Background()

	first, err := svc.Generate(ctx, trip.ID)
	require.NoError(t, err)
	require.NotEmpty(t, first)
	_, err = svc.Generate(ctx, trip.ID)
	require.NoError(t, err)

	current, _ := st.Trip(trip.ID)
	seen := map[string]bool{}
	for _, it := range current.PackingList {
		assert.False(t, seen[it.Name], "duplicate %s", it.Name)
		seen[it.Name] = true
	}
	assert.Equal(t, []string{"SavePackingList", "SavePackingList"}, b.Calls())
}

func TestPackingService_CustomItems(t *testing.T) {
	trip := newTrip("T", 1)
	st := seeded(trip)
	svc := service.NewPackingService(st, fixedSelector{&mockBackend{}}, nil, discardLogger())
	ctx := context.Background()

	item, err := svc.AddItem(ctx, trip.ID, "  Kite ", "")
	require.NoError(t, err)
	assert.Equal(t, "Kite", item.Name)
	assert.True(t, item.IsCustom)
	assert.Equal(t, "Other", item.Category)

	toggled, err := svc.ToggleItem(ctx, trip.ID, item.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Checked)

	require.NoError(t, svc.UncheckAll(ctx, trip.ID))
	current, _ := st.Trip(trip.ID)
	assert.False(t, current.PackingList[0].Checked)

	require.NoError(t, svc.RemoveItem(ctx, trip.ID, item.ID))
	assert.ErrorIs(t, svc.RemoveItem(ctx, trip.ID, item.ID), domain.ErrNotFound)

	_, err = svc.AddItem(ctx, trip.ID, "", "Misc")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
