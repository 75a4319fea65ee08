package service

import (
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
)

type packingCategory struct {
	name  string
	items []string
}

// packingPool is walked in order so a seeded source gives a stable result.
var packingPool = []packingCategory{
	{"Documents", []string{"Passport", "Travel insurance", "Boarding passes", "Hotel confirmations", "Driver's license", "Copies of documents"}},
	{"Clothing", []string{"T-shirts", "Pants", "Underwear", "Socks", "Pajamas", "Comfortable walking shoes", "Light sweater"}},
	{"Toiletries", []string{"Toothbrush", "Toothpaste", "Shampoo", "Deodorant", "Razor", "Hairbrush"}},
	{"Electronics", []string{"Phone charger", "Power bank", "Travel adapter", "Headphones", "Camera", "E-reader"}},
	{"Health", []string{"Prescription medication", "Pain relievers", "Band-aids", "Hand sanitizer", "Motion sickness tablets"}},
	{"Accessories", []string{"Day backpack", "Reusable water bottle", "Travel pillow", "Packing cubes", "Earplugs", "Eye mask"}},
}

var (
	rainItems = []string{"Umbrella", "Rain jacket", "Waterproof shoes"}
	coldItems = []string{"Warm jacket", "Gloves", "Scarf", "Thermal layers"}
	warmItems = []string{"Sunscreen", "Sunglasses", "Sun hat", "Swimsuit"}
)

const (
	rainThreshold = 50.0
	coldThreshold = 10.0
	warmThreshold = 25.0
)

// GeneratePackingItems suggests packing items for a trip. From every pool
// category it draws 3 to 5 distinct items using rng, then adds weather
// extras: rain gear when any day's precipitation probability exceeds 50%,
// cold gear when any minimum is under 10°C and warm-weather gear when any
// maximum is over 25°C. Names already in existing are dropped and no name
// is produced twice. Matching is exact and case-sensitive.
func GeneratePackingItems(rng *rand.Rand, weather []domain.WeatherDay, existing []domain.PackingItem) []domain.PackingItem {
	taken := make(map[string]bool, len(existing))
	for _, it := range existing {
		taken[it.Name] = true
	}

	var out []domain.PackingItem
	add := func(category, name string) {
		if taken[name] {
			return
		}
		taken[name] = true
		out = append(out, domain.PackingItem{ID: uuid.NewString(), Name: name, Category: category})
	}

	for _, cat := range packingPool {
		n := min(3+rng.IntN(3), len(cat.items))
		for _, i := range rng.Perm(len(cat.items))[:n] {
			add(cat.name, cat.items[i])
		}
	}

	rainy, cold, warm := weatherFlags(weather)
	if rainy {
		for _, name := range rainItems {
			add("Weather", name)
		}
	}
	if cold {
		for _, name := range coldItems {
			add("Weather", name)
		}
	}
	if warm {
		for _, name := range warmItems {
			add("Weather", name)
		}
	}
	return out
}

func weatherFlags(days []domain.WeatherDay) (rainy, cold, warm bool) {
	for _, d := range days {
		rainy = rainy || d.PrecipitationProbability > rainThreshold
		cold = cold || d.TempMin < coldThreshold
		warm = warm || d.TempMax > warmThreshold
	}
	return rainy, cold, warm
}
